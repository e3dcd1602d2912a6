// internal/rental/handler.go
package rental

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"movierental/internal/catalog"
)

// Handler exposes the cart and rental operations over HTTP. Operation
// failures other than an in-flight conflict are reported through the state's
// error field, never as a thrown error.
type Handler struct {
	service  Service
	catalog  catalog.Service
	logger   *slog.Logger
	validate *validator.Validate
}

func NewHandler(service Service, cat catalog.Service, logger *slog.Logger, validate *validator.Validate) *Handler {
	return &Handler{
		service:  service,
		catalog:  cat,
		logger:   logger,
		validate: validate,
	}
}

// Routes mounts the cart and rental endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/cart", h.handleGetCart)
	r.Post("/cart", h.handleAddToCart)
	r.Delete("/cart/{title}", h.handleRemoveFromCart)
	r.Post("/checkout", h.handleCheckout)
	r.Get("/rentals", h.handleGetRentals)
	r.Post("/rentals/return", h.handleReturn)
}

type stateResponse struct {
	Cart         []catalog.Movie `json:"cart"`
	RentedMovies []catalog.Movie `json:"rentedMovies"`
	IsLoading    bool            `json:"isLoading"`
	Error        string          `json:"error,omitempty"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.respondState(w)
}

func (h *Handler) handleGetRentals(w http.ResponseWriter, r *http.Request) {
	h.respondState(w)
}

// handleAddToCart resolves the title against the current catalog snapshot so
// the cart entry carries the stock and price the user saw.
func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for _, m := range h.catalog.Snapshot().Movies {
		if m.Title == req.Title {
			h.service.AddToCart(m)
			h.respondState(w)
			return
		}
	}
	http.Error(w, "movie not found in catalog", http.StatusNotFound)
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	if title == "" {
		http.Error(w, "missing title", http.StatusBadRequest)
		return
	}

	h.service.RemoveFromCart(title)
	h.respondState(w)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CheckoutMovies(r.Context()); err != nil {
		if errors.Is(err, ErrOperationInFlight) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
	h.respondState(w)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.ReturnRentedMovie(r.Context(), req.Title); err != nil {
		if errors.Is(err, ErrOperationInFlight) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	}
	h.respondState(w)
}

func (h *Handler) respondState(w http.ResponseWriter) {
	state := stateResponse{
		Cart:         h.service.Cart(),
		RentedMovies: h.service.RentedMovies(),
		IsLoading:    h.service.IsLoading(),
		Error:        h.service.Err(),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(state); err != nil {
		h.logger.Error("failed to encode rental state", "error", err)
	}
}
