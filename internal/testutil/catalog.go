package testutil

import (
	"testing"

	"estate-go/internal/catalog"
)

// NewTestStore creates an empty store driven by a FixedClock and a
// StubIDGenerator, and returns all three so tests can steer them.
func NewTestStore(t *testing.T) (*catalog.Store, *StubClock, *StubIDGenerator) {
	t.Helper()
	clock := FixedClock()
	idgen := NewStubIDGenerator("")
	return catalog.NewStore(clock, idgen), clock, idgen
}

// Listing returns a valid input with the given title, kind and price and
// plausible values for everything else.
func Listing(title string, kind catalog.Kind, price float64) catalog.PropertyInput {
	return catalog.PropertyInput{
		Title:       title,
		Description: title + " description",
		Location:    "Riyadh",
		Price:       price,
		Kind:        kind,
		Bedrooms:    3,
		Bathrooms:   2,
		Area:        180,
		ImageRef:    "https://example.com/" + title + ".jpg",
		Features:    []string{"parking", "gym"},
	}
}

// MustAdd adds in to s and fails the test on error.
func MustAdd(t *testing.T, s *catalog.Store, in catalog.PropertyInput) catalog.Property {
	t.Helper()
	p, err := s.Add(in)
	if err != nil {
		t.Fatalf("Add(%q) error = %v", in.Title, err)
	}
	return p
}
