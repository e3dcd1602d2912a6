// internal/catalog/service.go
package catalog

import "context"

// Fetcher retrieves movies from the remote inventory API.
type Fetcher interface {
	ListMovies(ctx context.Context) ([]Movie, error)
	SearchMovies(ctx context.Context, query string) ([]Movie, error)
}

// Service holds the catalog view state: the last fetched movie list, its
// derived genre/language facets, and the current search query.
type Service interface {
	Snapshot() Snapshot
	SetSearchQuery(query string)
	Refresh(ctx context.Context) error
	Close()
}
