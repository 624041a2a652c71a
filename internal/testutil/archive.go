package testutil

import "estate-go/internal/archive"

// NewTestArchive creates a new in-memory export archive for testing.
func NewTestArchive() *archive.MemoryArchive {
	return archive.NewMemoryArchive("test-archive")
}
