package estate

import (
	"fmt"
	"time"

	"estate-go/internal/catalog"

	"github.com/patrickmn/go-cache"
)

// queryTTL bounds how long a memoized query result lives. Entries are also
// flushed on every catalog mutation.
const queryTTL = 10 * time.Minute

// EstateService is the orchestration layer between the catalog store and its
// collaborators: persistence, export archives and encryption. The CLI and the
// HTTP server both go through it.
type EstateService struct {
	store     *catalog.Store
	repo      Repository
	archive   Archive
	encryptor Encryptor
	logger    Logger
	clock     catalog.Clock

	queries     *cache.Cache
	unsubscribe func()
}

// NewEstateService creates a new EstateService. archive and encryptor may be
// nil, in which case export operations fail with ErrNoArchive or
// ErrEncryptionNotConfigured. The caller must call Close when done.
func NewEstateService(store *catalog.Store, repo Repository, archive Archive, encryptor Encryptor, logger Logger, clock catalog.Clock) *EstateService {
	s := &EstateService{
		store:     store,
		repo:      repo,
		archive:   archive,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		queries:   cache.New(queryTTL, 2*queryTTL),
	}
	s.unsubscribe = store.Subscribe(func(uint64) { s.queries.Flush() })
	return s
}

// Close detaches the service from the store.
func (s *EstateService) Close() {
	s.unsubscribe()
}

// Load replaces the in-memory catalog with the persisted one.
// Returns the number of records loaded; 0 if nothing was persisted.
func (s *EstateService) Load() (int, error) {
	snap, err := s.repo.LoadSnapshot()
	if err != nil {
		return 0, fmt.Errorf("loading catalog: %w", err)
	}
	if snap == nil {
		s.logger.Debug("no persisted catalog")
		return 0, nil
	}
	if err := s.store.Restore(snap); err != nil {
		return 0, fmt.Errorf("loading catalog: %w", err)
	}
	s.logger.Debug("catalog loaded", "properties", len(snap.Properties), "favorites", len(snap.Favorites))
	return len(snap.Properties), nil
}

// Save persists the current catalog.
func (s *EstateService) Save() error {
	snap := s.store.Snapshot()
	if err := s.repo.SaveSnapshot(snap); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	s.logger.Debug("catalog saved", "properties", len(snap.Properties), "favorites", len(snap.Favorites))
	return nil
}

// Seed loads snap into an empty catalog. It is a no-op, returning false,
// when the catalog already has records.
func (s *EstateService) Seed(snap *catalog.Snapshot) (bool, error) {
	if s.store.Len() > 0 {
		return false, nil
	}
	if err := s.store.Restore(snap); err != nil {
		return false, fmt.Errorf("seeding catalog: %w", err)
	}
	s.logger.Info("catalog seeded", "properties", len(snap.Properties))
	return true, nil
}

// AddProperty creates a new listing.
func (s *EstateService) AddProperty(in catalog.PropertyInput) (catalog.Property, error) {
	p, err := s.store.Add(in)
	if err != nil {
		return catalog.Property{}, fmt.Errorf("adding property: %w", err)
	}
	s.logger.Info("property added", "id", p.ID, "kind", p.Kind, "price", p.Price)
	return p, nil
}

// UpdateProperty applies patch to the listing and returns the updated record.
func (s *EstateService) UpdateProperty(id string, patch catalog.PropertyPatch) (catalog.Property, error) {
	if err := s.store.Update(id, patch); err != nil {
		return catalog.Property{}, err
	}
	p, err := s.store.Get(id)
	if err != nil {
		// Deleted between the update and the read.
		return catalog.Property{}, err
	}
	s.logger.Info("property updated", "id", id)
	return p, nil
}

// DeleteProperty removes the listing and its favorite membership.
func (s *EstateService) DeleteProperty(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.logger.Info("property deleted", "id", id)
	return nil
}

// ToggleFavorite flips the favorite state of the listing and returns the new state.
func (s *EstateService) ToggleFavorite(id string) (bool, error) {
	on, err := s.store.ToggleFavorite(id)
	if err != nil {
		return false, err
	}
	s.logger.Info("favorite toggled", "id", id, "favorite", on)
	return on, nil
}

// GetProperty returns a single listing.
func (s *EstateService) GetProperty(id string) (catalog.Property, error) {
	return s.store.Get(id)
}

// IsFavorite reports whether the listing is favorited.
func (s *EstateService) IsFavorite(id string) bool {
	return s.store.IsFavorite(id)
}

// Search runs a catalog query. Results are memoized per catalog version and
// parameters, so repeated renders of an unchanged catalog are free.
func (s *EstateService) Search(params catalog.QueryParams) []catalog.Property {
	records, version := s.store.ListVersion()
	key := queryKey(version, params)

	if x, found := s.queries.Get(key); found {
		return catalog.CloneAll(x.([]catalog.Property))
	}

	result := catalog.Query(records, params)
	s.queries.Set(key, result, cache.DefaultExpiration)
	return catalog.CloneAll(result)
}

// Favorites returns the favorited listings in catalog order.
func (s *EstateService) Favorites() []catalog.Property {
	return s.store.FavoriteProperties()
}

// Stats summarizes the catalog.
func (s *EstateService) Stats() catalog.Stats {
	snap := s.store.Snapshot()
	return catalog.ComputeStats(snap.Properties, snap.Favorites)
}

// Version returns the catalog version.
func (s *EstateService) Version() uint64 {
	return s.store.Version()
}

// queryKey identifies a query result. Equivalent params share a key, and
// quoting keeps fields containing the separator apart.
func queryKey(version uint64, p catalog.QueryParams) string {
	p = p.Normalized()
	return fmt.Sprintf("q:%d:%q:%q:%q", version, p.Type, p.Sort, p.SearchText)
}
