package estate

import (
	"testing"

	"estate-go/internal/catalog"
)

func TestQueryKey(t *testing.T) {
	t.Run("defaults share a key", func(t *testing.T) {
		empty := queryKey(3, catalog.QueryParams{SearchText: "villa"})
		explicit := queryKey(3, catalog.QueryParams{SearchText: "villa", Type: catalog.TypeAll, Sort: catalog.SortNewest})
		if empty != explicit {
			t.Errorf("queryKey(empty) = %q, queryKey(explicit) = %q, want equal", empty, explicit)
		}
	})

	t.Run("distinct params never collide", func(t *testing.T) {
		tests := []struct {
			name string
			a, b catalog.QueryParams
		}{
			{
				"separator in search text",
				catalog.QueryParams{Type: "all:newest", Sort: "", SearchText: "x"},
				catalog.QueryParams{Type: "all", Sort: "newest", SearchText: ":x"},
			},
			{
				"sort key",
				catalog.QueryParams{SearchText: "a"},
				catalog.QueryParams{SearchText: "a", Sort: catalog.SortPriceLow},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if queryKey(1, tt.a) == queryKey(1, tt.b) {
					t.Errorf("queryKey(%+v) == queryKey(%+v)", tt.a, tt.b)
				}
			})
		}
		if queryKey(1, catalog.QueryParams{}) == queryKey(2, catalog.QueryParams{}) {
			t.Error("queryKey ignores the catalog version")
		}
	})
}
