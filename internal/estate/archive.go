package estate

import (
	"io"
	"time"
)

// Archive stores exported catalog documents.
// All operations stream through io.Reader/io.Writer.
type Archive interface {
	// Name identifies the archive in configuration and logs.
	Name() string

	// Put stores an object under name, replacing any previous one.
	// size is the number of bytes that will be read from r.
	Put(name string, r io.Reader, size int64) error

	// Get writes the object stored under name to w.
	// Returns ErrExportNotFound if there is no such object.
	Get(name string, w io.Writer) error

	// List returns the stored objects ordered by name.
	List() ([]ArchiveEntry, error)

	// ValidateSetup verifies that the archive is reachable and writable.
	ValidateSetup() error
}

// ArchiveEntry describes one stored object.
type ArchiveEntry struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}
