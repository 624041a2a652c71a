package catalog

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// Kind classifies a listing as a one-time sale or a recurring rent.
type Kind string

const (
	KindSale Kind = "sale"
	KindRent Kind = "rent"
)

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindSale, KindRent:
		return k, nil
	default:
		return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", s)}
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindSale || k == KindRent
}

// Property is a single listing held by the Store.
// ID and CreatedAt are assigned by the store and never change afterwards.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Kind        Kind      `json:"kind"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        float64   `json:"area"`
	ImageRef    string    `json:"imageRef"`
	Features    []string  `json:"features"`
	CreatedAt   time.Time `json:"createdAt"`
}

// clone returns a copy that shares no mutable state with p.
func (p Property) clone() Property {
	p.Features = slices.Clone(p.Features)
	if p.Features == nil {
		p.Features = []string{}
	}
	return p
}

// PropertyInput carries the caller-supplied fields of a new listing.
type PropertyInput struct {
	Title       string
	Description string
	Location    string
	Price       float64
	Kind        Kind
	Bedrooms    int
	Bathrooms   int
	Area        float64
	ImageRef    string
	Features    []string
}

// Validate enforces the numeric and kind invariants of a listing.
// Required text fields are the form layer's concern and are not checked here.
func (in PropertyInput) Validate() error {
	if !in.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", in.Kind)}
	}
	return validateNumbers(&in.Price, &in.Bedrooms, &in.Bathrooms, &in.Area)
}

func (in PropertyInput) toProperty(id string, createdAt time.Time) Property {
	return Property{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Price:       in.Price,
		Kind:        in.Kind,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Area:        in.Area,
		ImageRef:    in.ImageRef,
		Features:    in.Features,
		CreatedAt:   createdAt,
	}.clone()
}

// PropertyPatch is a partial update. Nil fields are left untouched.
// A non-nil Features slice (including an empty one) replaces the feature list.
type PropertyPatch struct {
	Title       *string
	Description *string
	Location    *string
	Price       *float64
	Kind        *Kind
	Bedrooms    *int
	Bathrooms   *int
	Area        *float64
	ImageRef    *string
	Features    []string
}

// IsEmpty reports whether the patch changes nothing.
func (p PropertyPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil &&
		p.Price == nil && p.Kind == nil && p.Bedrooms == nil && p.Bathrooms == nil &&
		p.Area == nil && p.ImageRef == nil && p.Features == nil
}

// Validate checks the fields present in the patch.
func (p PropertyPatch) Validate() error {
	if p.Kind != nil && !p.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", *p.Kind)}
	}
	return validateNumbers(p.Price, p.Bedrooms, p.Bathrooms, p.Area)
}

func (p PropertyPatch) apply(dst *Property) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.Location != nil {
		dst.Location = *p.Location
	}
	if p.Price != nil {
		dst.Price = *p.Price
	}
	if p.Kind != nil {
		dst.Kind = *p.Kind
	}
	if p.Bedrooms != nil {
		dst.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		dst.Bathrooms = *p.Bathrooms
	}
	if p.Area != nil {
		dst.Area = *p.Area
	}
	if p.ImageRef != nil {
		dst.ImageRef = *p.ImageRef
	}
	if p.Features != nil {
		dst.Features = slices.Clone(p.Features)
	}
}

// validateNumbers rejects negative or non-finite values among the non-nil
// arguments.
func validateNumbers(price *float64, bedrooms, bathrooms *int, area *float64) error {
	if price != nil && !validAmount(*price) {
		return &ValidationError{Field: "price", Reason: "must be a non-negative number"}
	}
	if bedrooms != nil && *bedrooms < 0 {
		return &ValidationError{Field: "bedrooms", Reason: "must not be negative"}
	}
	if bathrooms != nil && *bathrooms < 0 {
		return &ValidationError{Field: "bathrooms", Reason: "must not be negative"}
	}
	if area != nil && !validAmount(*area) {
		return &ValidationError{Field: "area", Reason: "must be a non-negative number"}
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}
