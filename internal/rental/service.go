// internal/rental/service.go
package rental

import (
	"context"

	"movierental/internal/catalog"
)

// InventoryClient is the subset of the remote inventory API used by rental
// operations. The backend owns all stock bookkeeping.
type InventoryClient interface {
	Checkout(ctx context.Context, title string, amount int) error
	Return(ctx context.Context, title string, amount int) error
}

// Catalog triggers a re-fetch of the movie list so displayed stock matches
// the backend after a mutation.
type Catalog interface {
	Refresh(ctx context.Context) error
}

// Store durably persists the set of rented movies across restarts.
type Store interface {
	LoadRentals() ([]catalog.Movie, error)
	SaveRentals(movies []catalog.Movie) error
}

// Service owns the in-progress cart and the set of currently rented movies.
// No other component mutates either set.
type Service interface {
	AddToCart(m catalog.Movie)
	RemoveFromCart(title string)
	Cart() []catalog.Movie
	RentedMovies() []catalog.Movie
	CheckoutMovies(ctx context.Context) error
	ReturnRentedMovie(ctx context.Context, title string) error
	IsLoading() bool
	Err() string
	Close()
}
