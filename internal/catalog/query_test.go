package catalog_test

import (
	"slices"
	"testing"
	"time"

	"estate-go/internal/catalog"
)

var base = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func fixture() []catalog.Property {
	return []catalog.Property{
		{ID: "1", Title: "Sea View Villa", Location: "Jeddah, Al Shati", Price: 2500000, Kind: catalog.KindSale, CreatedAt: base},
		{ID: "2", Title: "Modern Tower Apartment", Location: "Riyadh, Olaya", Price: 3500, Kind: catalog.KindRent, CreatedAt: base.AddDate(0, 1, 5)},
		{ID: "3", Title: "Family Duplex", Location: "Dubai, Jumeirah", Price: 1800000, Kind: catalog.KindSale, CreatedAt: base.AddDate(0, 1, 24)},
		{ID: "4", Title: "Small Furnished Studio", Location: "Abu Dhabi", Price: 2200, Kind: catalog.KindRent, CreatedAt: base.AddDate(0, 2, 10)},
	}
}

func TestQuery(t *testing.T) {
	tests := []struct {
		name   string
		params catalog.QueryParams
		want   []string
	}{
		{
			name:   "zero params mean all newest first",
			params: catalog.QueryParams{},
			want:   []string{"4", "3", "2", "1"},
		},
		{
			name:   "sale only",
			params: catalog.QueryParams{Type: catalog.TypeSale},
			want:   []string{"3", "1"},
		},
		{
			name:   "rent only by price high",
			params: catalog.QueryParams{Type: catalog.TypeRent, Sort: catalog.SortPriceHigh},
			want:   []string{"2", "4"},
		},
		{
			name:   "price low across kinds",
			params: catalog.QueryParams{Type: catalog.TypeAll, Sort: catalog.SortPriceLow},
			want:   []string{"4", "2", "3", "1"},
		},
		{
			name:   "search matches title case-insensitively",
			params: catalog.QueryParams{SearchText: "VILLA"},
			want:   []string{"1"},
		},
		{
			name:   "search matches location",
			params: catalog.QueryParams{SearchText: "riyadh"},
			want:   []string{"2"},
		},
		{
			name:   "search combines with type filter",
			params: catalog.QueryParams{SearchText: "a", Type: catalog.TypeRent, Sort: catalog.SortPriceLow},
			want:   []string{"4", "2"},
		},
		{
			name:   "no match",
			params: catalog.QueryParams{SearchText: "penthouse"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(catalog.Query(fixture(), tt.params))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Query() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuery_SearchMatchesArabicText(t *testing.T) {
	records := []catalog.Property{
		{ID: "1", Title: "فيلا فاخرة بإطلالة بحرية", Location: "جدة، حي الشاطئ", Kind: catalog.KindSale},
		{ID: "2", Title: "شقة عصرية في برج سكني", Location: "الرياض، حي العليا", Kind: catalog.KindRent},
	}

	got := ids(catalog.Query(records, catalog.QueryParams{SearchText: "الرياض"}))
	if !slices.Equal(got, []string{"2"}) {
		t.Errorf("Query() ids = %v, want [2]", got)
	}
}

func TestQuery_StableOnTies(t *testing.T) {
	records := []catalog.Property{
		{ID: "a", Price: 100, Kind: catalog.KindSale, CreatedAt: base},
		{ID: "b", Price: 50, Kind: catalog.KindSale, CreatedAt: base},
		{ID: "c", Price: 100, Kind: catalog.KindSale, CreatedAt: base},
		{ID: "d", Price: 50, Kind: catalog.KindSale, CreatedAt: base},
	}

	tests := []struct {
		sort catalog.SortKey
		want []string
	}{
		{catalog.SortNewest, []string{"a", "b", "c", "d"}},
		{catalog.SortPriceLow, []string{"b", "d", "a", "c"}},
		{catalog.SortPriceHigh, []string{"a", "c", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := ids(catalog.Query(records, catalog.QueryParams{Sort: tt.sort}))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Query() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	records := fixture()
	records[0].Features = []string{"pool"}
	before := ids(records)

	result := catalog.Query(records, catalog.QueryParams{Sort: catalog.SortPriceLow})
	for i := range result {
		if result[i].ID == "1" {
			result[i].Features[0] = "mutated"
		}
	}

	if got := ids(records); !slices.Equal(got, before) {
		t.Errorf("input order changed to %v, want %v", got, before)
	}
	if records[0].Features[0] != "pool" {
		t.Errorf("input Features[0] = %q, want %q", records[0].Features[0], "pool")
	}
}

func TestParseTypeFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    catalog.TypeFilter
		wantErr bool
	}{
		{"", catalog.TypeAll, false},
		{"all", catalog.TypeAll, false},
		{"sale", catalog.TypeSale, false},
		{"rent", catalog.TypeRent, false},
		{"lease", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := catalog.ParseTypeFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTypeFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTypeFilter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    catalog.SortKey
		wantErr bool
	}{
		{"", catalog.SortNewest, false},
		{"newest", catalog.SortNewest, false},
		{"price-low", catalog.SortPriceLow, false},
		{"price-high", catalog.SortPriceHigh, false},
		{"cheapest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := catalog.ParseSortKey(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFavoritesView(t *testing.T) {
	got := ids(catalog.FavoritesView(fixture(), []string{"3", "1", "ghost"}))
	if !slices.Equal(got, []string{"1", "3"}) {
		t.Errorf("FavoritesView() ids = %v, want [1 3] in catalog order", got)
	}
}

func TestComputeStats(t *testing.T) {
	got := catalog.ComputeStats(fixture(), []string{"2", "ghost"})
	want := catalog.Stats{Total: 4, Sale: 2, Rent: 2, Favorites: 1}
	if got != want {
		t.Errorf("ComputeStats() = %+v, want %+v", got, want)
	}
}
