// internal/web/handler.go
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"movierental/internal/catalog"
	"movierental/internal/rental"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler renders the storefront pages. It only reads state snapshots and
// calls public operations; it never mutates state directly.
type Handler struct {
	catalog   catalog.Service
	rentals   rental.Service
	logger    *slog.Logger
	templates *template.Template
}

func NewHandler(cat catalog.Service, rentals rental.Service, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		catalog:   cat,
		rentals:   rentals,
		logger:    logger,
		templates: tmpl,
	}, nil
}

// HandleHome renders the catalog plus the current cart.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Catalog catalog.Snapshot
		Cart    []catalog.Movie
		Error   string
	}{
		Catalog: h.catalog.Snapshot(),
		Cart:    h.rentals.Cart(),
		Error:   h.rentals.Err(),
	}
	h.render(w, "home.html", data)
}

// HandleRentals renders the active rentals page.
func (h *Handler) HandleRentals(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Rented []catalog.Movie
		Error  string
	}{
		Rented: h.rentals.RentedMovies(),
		Error:  h.rentals.Err(),
	}
	h.render(w, "rentals.html", data)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render page", "template", name, "error", err)
	}
}
