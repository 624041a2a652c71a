package testutil

import (
	"estate-go/internal/encryption"
)

// NewTestEncryptor creates a reversible, passphrase-checking encryptor for
// tests. It is already set up with TestPassphrase.
func NewTestEncryptor() *encryption.TestEncryptor {
	e := encryption.NewTestEncryptor()
	if err := e.Setup(TestPassphrase); err != nil {
		panic(err)
	}
	return e
}

// TestPassphrase unlocks encryptors returned by NewTestEncryptor.
const TestPassphrase = "correct horse"
