// internal/catalog/implementation.go
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	fetchErrMsg  = "An error occurred while fetching movies. Please try again."
	searchErrMsg = "An error occurred while searching for movies."

	defaultDebounce = 500 * time.Millisecond
)

// service implements the Service interface.
type service struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu          sync.Mutex
	movies      []Movie
	genres      []string
	languages   []string
	searchQuery string
	loading     bool
	errMsg      string
	gen         uint64
	debounce    *time.Timer
	delay       time.Duration
	closed      bool
}

// NewService creates a new catalog service instance.
func NewService(fetcher Fetcher, logger *slog.Logger) Service {
	return &service{
		fetcher: fetcher,
		logger:  logger,
		delay:   defaultDebounce,
	}
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Movies:      append([]Movie(nil), s.movies...),
		Genres:      append([]string(nil), s.genres...),
		Languages:   append([]string(nil), s.languages...),
		IsLoading:   s.loading,
		Error:       s.errMsg,
		SearchQuery: s.searchQuery,
	}
}

// SetSearchQuery records the query and re-arms the debounce timer. Only the
// query in effect when the timer fires is sent, so a burst of keystrokes
// results in a single request.
func (s *service) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.searchQuery = query
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.delay, func() {
		s.fetch(context.Background(), query)
	})
}

// Refresh re-fetches the full movie list immediately, bypassing the
// debounce. It advances the request generation, so search responses issued
// earlier cannot overwrite its result.
func (s *service) Refresh(ctx context.Context) error {
	return s.fetch(ctx, "")
}

// Close stops the debounce timer. Responses arriving after Close are
// discarded rather than applied to torn-down state.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.debounce != nil {
		s.debounce.Stop()
	}
}

// fetch performs a list or search request for query and installs the result,
// unless a newer request was issued while this one was in flight. An empty
// query falls back to the full list instead of searching for "".
func (s *service) fetch(ctx context.Context, query string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.gen++
	gen := s.gen
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	query = strings.TrimSpace(query)
	var (
		movies []Movie
		err    error
	)
	if query == "" {
		movies, err = s.fetcher.ListMovies(ctx)
	} else {
		movies, err = s.fetcher.SearchMovies(ctx, query)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		// A newer request owns the state now.
		return err
	}
	s.loading = false
	if err != nil {
		s.logger.Error("catalog fetch failed", "query", query, "error", err)
		s.movies = nil
		s.genres = nil
		s.languages = nil
		if query == "" {
			s.errMsg = fetchErrMsg
		} else {
			s.errMsg = searchErrMsg
		}
		return err
	}
	s.movies = movies
	s.genres = distinctValues(movies, func(m Movie) string { return m.Genre })
	s.languages = distinctValues(movies, func(m Movie) string { return m.Language })
	s.errMsg = ""
	return nil
}
