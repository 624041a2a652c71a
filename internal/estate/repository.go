package estate

import "estate-go/internal/catalog"

// Repository persists the catalog between runs.
type Repository interface {
	// LoadSnapshot returns the stored catalog, or nil if nothing has been
	// saved yet.
	LoadSnapshot() (*catalog.Snapshot, error)

	// SaveSnapshot replaces the stored catalog with snap in one transaction.
	SaveSnapshot(snap *catalog.Snapshot) error

	// Close releases the underlying connection.
	Close() error
}
