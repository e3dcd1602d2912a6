// internal/rental/implementation.go
package rental

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"movierental/internal/catalog"
)

const (
	checkoutErrMsg = "Failed to checkout movies. Please try again."
	returnErrMsg   = "Failed to return movie. Please try again."
)

// ErrOperationInFlight is returned when a checkout or return is attempted
// while another mutating operation is still running.
var ErrOperationInFlight = errors.New("rental operation already in flight")

var errClosed = errors.New("rental service is closed")

// service implements the Service interface.
type service struct {
	inventory InventoryClient
	catalog   Catalog
	store     Store
	logger    *slog.Logger

	mu      sync.Mutex
	cart    []catalog.Movie
	rented  []catalog.Movie
	loading bool
	errMsg  string
	closed  bool
}

// NewService creates a new rental service instance and rehydrates the rented
// set from the store. A load failure starts the service empty rather than
// failing startup.
func NewService(inventory InventoryClient, cat Catalog, store Store, logger *slog.Logger) Service {
	s := &service{
		inventory: inventory,
		catalog:   cat,
		store:     store,
		logger:    logger,
	}
	rented, err := store.LoadRentals()
	if err != nil {
		logger.Error("failed to load rented movies, starting empty", "error", err)
	} else {
		s.rented = rented
	}
	return s
}

// AddToCart appends the movie unless its title is already in the cart or it
// is out of stock.
func (s *service) AddToCart(m catalog.Movie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Stock < 1 {
		return
	}
	for _, entry := range s.cart {
		if entry.Title == m.Title {
			return
		}
	}
	s.cart = append(s.cart, m)
}

// RemoveFromCart drops the matching entry if present.
func (s *service) RemoveFromCart(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = removeTitle(s.cart, title)
}

func (s *service) Cart() []catalog.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Movie(nil), s.cart...)
}

func (s *service) RentedMovies() []catalog.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Movie(nil), s.rented...)
}

func (s *service) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Close marks the service as torn down. An operation completing afterwards
// discards its commit instead of mutating dead state.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// CheckoutMovies checks out one rental unit of every movie currently in the
// cart. The per-title requests run concurrently; the cart and rented sets
// only change if every request succeeds.
func (s *service) CheckoutMovies(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errClosed
	}
	if s.loading {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.loading = true
	s.errMsg = ""
	snapshot := append([]catalog.Movie(nil), s.cart...)
	s.mu.Unlock()

	errs := make([]error, len(snapshot))
	var wg sync.WaitGroup
	for i, m := range snapshot {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			errs[i] = s.inventory.Checkout(ctx, title, 1)
		}(i, m.Title)
	}
	wg.Wait()

	var failed error
	for _, err := range errs {
		if err != nil {
			failed = err
			break
		}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if failed != nil {
		s.errMsg = checkoutErrMsg
		s.loading = false
		s.mu.Unlock()
		s.logger.Error("checkout failed", "error", failed)
		// The backend may have already decremented stock for titles that
		// succeeded, so refresh the catalog even on failure.
		s.refreshCatalog(ctx)
		return fmt.Errorf("checkout movies: %w", failed)
	}
	s.rented = append(s.rented, snapshot...)
	s.persistRentals()
	s.cart = nil
	s.loading = false
	s.mu.Unlock()

	s.refreshCatalog(ctx)
	return nil
}

// ReturnRentedMovie releases one rental unit of title. An unknown title is
// still sent to the backend; the backend decides whether it is valid.
func (s *service) ReturnRentedMovie(ctx context.Context, title string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errClosed
	}
	if s.loading {
		s.mu.Unlock()
		return ErrOperationInFlight
	}
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	err := s.inventory.Return(ctx, title, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.errMsg = returnErrMsg
		s.loading = false
		s.mu.Unlock()
		s.logger.Error("return failed", "title", title, "error", err)
		return fmt.Errorf("return %q: %w", title, err)
	}
	s.rented = removeTitle(s.rented, title)
	s.persistRentals()
	s.loading = false
	s.mu.Unlock()

	s.refreshCatalog(ctx)
	return nil
}

// persistRentals writes the rented set to durable storage. Called with the
// lock held, after every mutation of s.rented.
func (s *service) persistRentals() {
	if err := s.store.SaveRentals(append([]catalog.Movie(nil), s.rented...)); err != nil {
		s.logger.Error("failed to persist rented movies", "error", err)
	}
}

func (s *service) refreshCatalog(ctx context.Context) {
	if err := s.catalog.Refresh(ctx); err != nil {
		s.logger.Error("catalog refresh after rental mutation failed", "error", err)
	}
}

func removeTitle(movies []catalog.Movie, title string) []catalog.Movie {
	var out []catalog.Movie
	for _, m := range movies {
		if m.Title != title {
			out = append(out, m)
		}
	}
	return out
}
