// internal/rental/handler_test.go
package rental

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movierental/internal/catalog"
)

// stubCatalog serves a fixed snapshot for title lookups.
type stubCatalog struct {
	movies []catalog.Movie
}

func (s *stubCatalog) Snapshot() catalog.Snapshot {
	return catalog.Snapshot{Movies: s.movies}
}

func (s *stubCatalog) SetSearchQuery(string)             {}
func (s *stubCatalog) Refresh(ctx context.Context) error { return nil }
func (s *stubCatalog) Close()                            {}

func newTestRouter(t *testing.T) (*chi.Mux, *service) {
	t.Helper()
	svc, _, _, _ := newTestService(nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat := &stubCatalog{movies: []catalog.Movie{
		movie("Dune", 2),
		movie("Heat", 0),
	}}
	h := NewHandler(svc, cat, logger, validator.New())

	router := chi.NewRouter()
	router.Route("/api", h.Routes)
	return router, svc
}

func TestHandleAddToCart(t *testing.T) {
	router, svc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"title":"Dune"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var state stateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	require.Len(t, state.Cart, 1)
	assert.Equal(t, "Dune", state.Cart[0].Title)
	require.Len(t, svc.Cart(), 1)
}

func TestHandleAddToCartUnknownTitle(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"title":"Ghost"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAddToCartMissingTitle(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRemoveFromCart(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.AddToCart(movie("Dune", 2))

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/Dune", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.Cart())
}

func TestHandleCheckoutMovesCartToRentals(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.AddToCart(movie("Dune", 2))

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var state stateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	assert.Empty(t, state.Cart)
	require.Len(t, state.RentedMovies, 1)
	assert.Equal(t, "Dune", state.RentedMovies[0].Title)
}

func TestHandleReturn(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.mu.Lock()
	svc.rented = []catalog.Movie{movie("Dune", 0)}
	svc.mu.Unlock()

	req := httptest.NewRequest(http.MethodPost, "/api/rentals/return", strings.NewReader(`{"title":"Dune"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.RentedMovies())
}
