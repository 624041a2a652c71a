package estate

import "errors"

var (
	// ErrExportNotFound is returned by Archive.Get and Import for unknown names.
	ErrExportNotFound = errors.New("export not found")

	// ErrNoArchive is returned by export operations when no archive is configured.
	ErrNoArchive = errors.New("no archive configured")

	// ErrEncryptionNotConfigured is returned when an encrypted export or import
	// is requested before `estate config init` has generated keys.
	ErrEncryptionNotConfigured = errors.New("encryption keys not configured")
)
