// internal/catalog/domain.go
package catalog

import "sort"

// Movie is a single rentable title as reported by the inventory API.
// The title is the only identity key; there is no separate numeric id.
type Movie struct {
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	Language      string  `json:"language"`
	Director      string  `json:"director"`
	YearOfRelease int     `json:"yearOfRelease"`
	Price         float64 `json:"price"`
	Stock         int     `json:"stock"`
}

// Snapshot is a point-in-time copy of the catalog state.
type Snapshot struct {
	Movies      []Movie  `json:"movies"`
	Genres      []string `json:"genres"`
	Languages   []string `json:"languages"`
	IsLoading   bool     `json:"isLoading"`
	Error       string   `json:"error,omitempty"`
	SearchQuery string   `json:"searchQuery"`
}

// distinctValues collects the distinct non-empty results of pick over
// movies, sorted ascending.
func distinctValues(movies []Movie, pick func(Movie) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range movies {
		v := pick(m)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
