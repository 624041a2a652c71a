package catalog

import (
	"fmt"
	"slices"
	"sync"
)

// maxIDAttempts bounds how many times Add asks the IDGenerator for a fresh
// identifier before giving up.
const maxIDAttempts = 8

// Store holds the authoritative listing collection and the favorite set.
// Records are kept newest-first (Add prepends). Every mutation runs under a
// single lock, so a delete and a toggle on the same identifier are always
// serialized and the favorite set never references a missing record.
// This implementation is safe for concurrent use.
type Store struct {
	clock Clock
	idgen IDGenerator

	mu        sync.RWMutex
	records   []Property
	favorites map[string]struct{}
	issued    map[string]struct{} // every identifier handed out or restored
	version   uint64

	observers map[int]func(version uint64)
	nextObs   int
}

// NewStore creates an empty store.
func NewStore(clock Clock, idgen IDGenerator) *Store {
	return &Store{
		clock:     clock,
		idgen:     idgen,
		favorites: make(map[string]struct{}),
		issued:    make(map[string]struct{}),
		observers: make(map[int]func(uint64)),
	}
}

// Add creates a record from in, assigns its identifier and creation time,
// and prepends it to the catalog.
func (s *Store) Add(in PropertyInput) (Property, error) {
	if err := in.Validate(); err != nil {
		return Property{}, err
	}

	s.mu.Lock()
	id, err := s.nextID()
	if err != nil {
		s.mu.Unlock()
		return Property{}, err
	}
	p := in.toProperty(id, s.clock.Now())
	s.records = slices.Insert(s.records, 0, p)
	s.issued[id] = struct{}{}
	v, obs := s.bumpLocked()
	s.mu.Unlock()

	notify(obs, v)
	return p.clone(), nil
}

// nextID returns an identifier never issued before in this store's lifetime.
// Callers must hold s.mu.
func (s *Store) nextID() (string, error) {
	for range maxIDAttempts {
		id := s.idgen.New()
		if id == "" {
			continue
		}
		if _, used := s.issued[id]; !used {
			return id, nil
		}
	}
	return "", fmt.Errorf("generating identifier: no unique value after %d attempts", maxIDAttempts)
}

// Update applies patch to the record with the given id. ID and CreatedAt are
// never touched.
func (s *Store) Update(id string, patch PropertyPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("updating %s: %w", id, ErrNotFound)
	}
	patch.apply(&s.records[i])
	v, obs := s.bumpLocked()
	s.mu.Unlock()

	notify(obs, v)
	return nil
}

// Delete removes the record and its favorite membership in one step.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	s.records = slices.Delete(s.records, i, i+1)
	delete(s.favorites, id)
	v, obs := s.bumpLocked()
	s.mu.Unlock()

	notify(obs, v)
	return nil
}

// ToggleFavorite flips the favorite membership of id and returns the new state.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return false, fmt.Errorf("toggling favorite %s: %w", id, ErrNotFound)
	}
	_, fav := s.favorites[id]
	if fav {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = struct{}{}
	}
	v, obs := s.bumpLocked()
	s.mu.Unlock()

	notify(obs, v)
	return !fav, nil
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Property{}, fmt.Errorf("getting %s: %w", id, ErrNotFound)
	}
	return s.records[i].clone(), nil
}

// List returns a copy of the catalog in store order (newest-first by insertion).
func (s *Store) List() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneAll(s.records)
}

// ListVersion returns the catalog and the version it was read at, under one
// lock. Memoized views key on the version.
func (s *Store) ListVersion() ([]Property, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneAll(s.records), s.version
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Favorites returns the favorited identifiers in ascending order.
func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favoriteIDsLocked()
}

// IsFavorite reports whether id is in the favorite set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.favorites[id]
	return ok
}

// FavoriteProperties returns the favorited records in catalog order.
func (s *Store) FavoriteProperties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FavoritesView(s.records, s.favoriteIDsLocked())
}

// Version increases by one on every successful mutation. Derived views can
// use it to decide whether they must be recomputed.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a consistent copy of records and favorites.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{
		Properties: CloneAll(s.records),
		Favorites:  s.favoriteIDsLocked(),
	}
}

// Restore replaces the whole catalog with snap. Favorites that do not
// reference a record in snap are dropped. Restored identifiers count as
// issued, so Add never reuses them.
func (s *Store) Restore(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}

	records := CloneAll(snap.Properties)
	live := make(map[string]struct{}, len(records))
	for _, p := range records {
		live[p.ID] = struct{}{}
	}
	favorites := make(map[string]struct{}, len(snap.Favorites))
	for _, id := range snap.Favorites {
		if _, ok := live[id]; ok {
			favorites[id] = struct{}{}
		}
	}

	s.mu.Lock()
	s.records = records
	s.favorites = favorites
	for id := range live {
		s.issued[id] = struct{}{}
	}
	v, obs := s.bumpLocked()
	s.mu.Unlock()

	notify(obs, v)
	return nil
}

// Subscribe registers fn to be called after every mutation with the new
// version. fn runs outside the store lock. The returned func unregisters it.
func (s *Store) Subscribe(fn func(version uint64)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.nextObs
	s.nextObs++
	s.observers[key] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, key)
	}
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.records, func(p Property) bool { return p.ID == id })
}

func (s *Store) favoriteIDsLocked() []string {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// bumpLocked increments the version and returns the observers to notify
// once the lock is released.
func (s *Store) bumpLocked() (uint64, []func(uint64)) {
	s.version++
	obs := make([]func(uint64), 0, len(s.observers))
	for _, fn := range s.observers {
		obs = append(obs, fn)
	}
	return s.version, obs
}

func notify(obs []func(uint64), version uint64) {
	for _, fn := range obs {
		fn(version)
	}
}

// CloneAll returns deep copies of records.
func CloneAll(records []Property) []Property {
	out := make([]Property, len(records))
	for i, p := range records {
		out[i] = p.clone()
	}
	return out
}
