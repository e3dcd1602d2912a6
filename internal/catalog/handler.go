// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the catalog state over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/catalog", h.handleGetCatalog)
	r.Put("/catalog/search", h.handleSearch)
	r.Post("/catalog/refresh", h.handleRefresh)
}

func (h *Handler) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	h.respondSnapshot(w)
}

// handleSearch stores the query and arms the debounce; the fetch itself
// happens once the input settles. An empty query is valid and falls back to
// the full list.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.service.SetSearchQuery(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// A failed refresh is reported through the snapshot's error field, the
	// same way the views consume it.
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.Error("manual catalog refresh failed", "error", err)
	}
	h.respondSnapshot(w)
}

func (h *Handler) respondSnapshot(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(h.service.Snapshot()); err != nil {
		h.logger.Error("failed to encode catalog snapshot", "error", err)
	}
}
