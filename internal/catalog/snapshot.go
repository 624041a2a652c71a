package catalog

import (
	"fmt"
	"slices"
)

// Snapshot is a point-in-time copy of the catalog: the ordered records and
// the favorite identifiers. It is the unit of persistence and export.
type Snapshot struct {
	Properties []Property
	Favorites  []string
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Properties: make([]Property, len(s.Properties)),
		Favorites:  slices.Clone(s.Favorites),
	}
	for i, p := range s.Properties {
		out.Properties[i] = p.clone()
	}
	return out
}

// Validate checks the invariants a snapshot must satisfy before it can be
// loaded into a Store: unique non-empty identifiers and valid field values.
// Dangling favorites are not an error; Restore drops them.
func (s *Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Properties))
	for i, p := range s.Properties {
		if p.ID == "" {
			return fmt.Errorf("property at index %d: %w", i, &ValidationError{Field: "id", Reason: "must not be empty"})
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("property %s: %w", p.ID, &ValidationError{Field: "id", Reason: "duplicate identifier"})
		}
		seen[p.ID] = struct{}{}

		in := PropertyInput{Kind: p.Kind, Price: p.Price, Bedrooms: p.Bedrooms, Bathrooms: p.Bathrooms, Area: p.Area}
		if err := in.Validate(); err != nil {
			return fmt.Errorf("property %s: %w", p.ID, err)
		}
	}
	return nil
}
