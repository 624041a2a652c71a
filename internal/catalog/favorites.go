package catalog

// FavoritesView returns the records whose identifier is in favorites,
// preserving the order of records.
func FavoritesView(records []Property, favorites []string) []Property {
	set := make(map[string]struct{}, len(favorites))
	for _, id := range favorites {
		set[id] = struct{}{}
	}

	out := make([]Property, 0, len(set))
	for _, p := range records {
		if _, ok := set[p.ID]; ok {
			out = append(out, p.clone())
		}
	}
	return out
}
