package estate

import (
	"bytes"
	"fmt"
	"strings"

	"estate-go/internal/exchange"
)

const (
	exportExt    = ".json"
	encryptedExt = ".age"
)

// ExportObjectName returns the archive object name for an export called name.
// An empty name is replaced by a timestamp.
func (s *EstateService) ExportObjectName(name string, encrypted bool) string {
	if name == "" {
		name = "catalog-" + s.clock.Now().UTC().Format("20060102T150405Z")
	}
	name = strings.TrimSuffix(strings.TrimSuffix(name, encryptedExt), exportExt)
	name += exportExt
	if encrypted {
		name += encryptedExt
	}
	return name
}

// Export writes the current catalog to the archive and returns the object
// name it was stored under. Encrypted exports use the public key only.
func (s *EstateService) Export(name string, encrypted bool) (string, error) {
	if s.archive == nil {
		return "", ErrNoArchive
	}
	if encrypted && (s.encryptor == nil || !s.encryptor.IsConfigured()) {
		return "", ErrEncryptionNotConfigured
	}

	snap := s.store.Snapshot()
	data, err := exchange.Encode(snap, s.clock.Now())
	if err != nil {
		return "", err
	}

	if encrypted {
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(data), &buf); err != nil {
			return "", fmt.Errorf("encrypting export: %w", err)
		}
		data = buf.Bytes()
	}

	object := s.ExportObjectName(name, encrypted)
	if err := s.archive.Put(object, bytes.NewReader(data), int64(len(data))); err != nil {
		return "", fmt.Errorf("storing export %s: %w", object, err)
	}

	s.logger.Info("catalog exported",
		"archive", s.archive.Name(),
		"object", object,
		"properties", len(snap.Properties),
		"encrypted", encrypted,
	)
	return object, nil
}

// Import replaces the catalog with the export stored under name.
// Encrypted exports (".age") are unlocked with passphrase. Favorites that do
// not reference an imported record are dropped.
// Returns the number of records imported.
func (s *EstateService) Import(name, passphrase string) (int, error) {
	if s.archive == nil {
		return 0, ErrNoArchive
	}

	var raw bytes.Buffer
	if err := s.archive.Get(name, &raw); err != nil {
		return 0, fmt.Errorf("reading export %s: %w", name, err)
	}

	data := raw.Bytes()
	if strings.HasSuffix(name, encryptedExt) {
		if s.encryptor == nil || !s.encryptor.IsConfigured() {
			return 0, ErrEncryptionNotConfigured
		}
		dc, err := s.encryptor.Unlock(passphrase)
		if err != nil {
			return 0, fmt.Errorf("unlocking private key: %w", err)
		}
		var plain bytes.Buffer
		if err := dc.Decrypt(bytes.NewReader(data), &plain); err != nil {
			return 0, fmt.Errorf("decrypting export %s: %w", name, err)
		}
		data = plain.Bytes()
	}

	snap, exportedAt, err := exchange.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("decoding export %s: %w", name, err)
	}
	if err := s.store.Restore(snap); err != nil {
		return 0, fmt.Errorf("importing %s: %w", name, err)
	}

	s.logger.Info("catalog imported",
		"archive", s.archive.Name(),
		"object", name,
		"properties", len(snap.Properties),
		"exported_at", exportedAt,
	)
	return len(snap.Properties), nil
}

// ListExports returns the exports stored in the archive.
func (s *EstateService) ListExports() ([]ArchiveEntry, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	entries, err := s.archive.List()
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	return entries, nil
}
