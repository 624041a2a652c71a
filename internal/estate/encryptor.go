package estate

import "io"

// Encryptor protects exported documents.
// Encryption uses the public key only, so exports never prompt. Decryption
// requires the passphrase that guards the private key.
type Encryptor interface {
	// Setup performs one-time key generation. Called during `estate config init`.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory for the duration
// of an import. The key is never written to disk.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
