package catalog

// Stats summarizes a catalog for the admin dashboard.
type Stats struct {
	Total     int `json:"total"`
	Sale      int `json:"sale"`
	Rent      int `json:"rent"`
	Favorites int `json:"favorites"`
}

// ComputeStats counts records by kind and the favorites that reference them.
func ComputeStats(records []Property, favorites []string) Stats {
	st := Stats{Total: len(records)}
	for _, p := range records {
		switch p.Kind {
		case KindSale:
			st.Sale++
		case KindRent:
			st.Rent++
		}
	}
	st.Favorites = len(FavoritesView(records, favorites))
	return st
}
