package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// TypeFilter restricts a query to one kind, or to none.
type TypeFilter string

const (
	TypeAll  TypeFilter = "all"
	TypeSale TypeFilter = "sale"
	TypeRent TypeFilter = "rent"
)

// ParseTypeFilter converts a raw string into a TypeFilter. Empty means all.
func ParseTypeFilter(s string) (TypeFilter, error) {
	switch f := TypeFilter(s); f {
	case "":
		return TypeAll, nil
	case TypeAll, TypeSale, TypeRent:
		return f, nil
	default:
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown filter %q", s)}
	}
}

// SortKey selects the ordering of a query result.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey converts a raw string into a SortKey. Empty means newest.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceLow, SortPriceHigh:
		return k, nil
	default:
		return "", &ValidationError{Field: "sort", Reason: fmt.Sprintf("unknown sort key %q", s)}
	}
}

// QueryParams are the user-controlled inputs of the listing screen.
// Zero values mean "all kinds, newest first, no search".
type QueryParams struct {
	SearchText string
	Type       TypeFilter
	Sort       SortKey
}

// Normalized returns q with the empty type filter and sort key replaced by
// their defaults.
func (q QueryParams) Normalized() QueryParams {
	if q.Type == "" {
		q.Type = TypeAll
	}
	if q.Sort == "" {
		q.Sort = SortNewest
	}
	return q
}

// Query filters and sorts records into a new slice. The input is never
// modified and the result shares no mutable state with it.
//
// A record is kept when its kind passes the type filter and the search text
// is a case-insensitive substring of its title or location. Sorting is stable,
// so ties keep their relative order from records.
func Query(records []Property, params QueryParams) []Property {
	params = params.Normalized()
	needle := strings.ToLower(params.SearchText)

	out := make([]Property, 0, len(records))
	for _, p := range records {
		if params.Type != TypeAll && string(p.Kind) != string(params.Type) {
			continue
		}
		if !p.matches(needle) {
			continue
		}
		out = append(out, p.clone())
	}

	switch params.Sort {
	case SortNewest:
		slices.SortStableFunc(out, func(a, b Property) int { return b.CreatedAt.Compare(a.CreatedAt) })
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Property) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Property) int { return cmp.Compare(b.Price, a.Price) })
	}
	return out
}

// matches reports whether the lowered needle occurs in the title or location.
func (p Property) matches(needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Location), needle)
}
