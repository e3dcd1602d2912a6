// internal/clients/inventory_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"movierental/internal/catalog"
)

// InventoryClient calls the remote inventory API that owns all stock and
// rental bookkeeping. Failures propagate as-is: no retries, no caching.
type InventoryClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tracer:     otel.Tracer("movierental/internal/clients"),
	}
}

// ListMovies fetches the full catalog.
func (c *InventoryClient) ListMovies(ctx context.Context) ([]catalog.Movie, error) {
	ctx, span := c.tracer.Start(ctx, "inventory.ListMovies")
	defer span.End()

	return c.getMovies(ctx, c.baseURL+"/api/movies")
}

// SearchMovies fetches the movies whose titles match query. Callers never
// pass an empty query; they fall back to ListMovies instead.
func (c *InventoryClient) SearchMovies(ctx context.Context, query string) ([]catalog.Movie, error) {
	ctx, span := c.tracer.Start(ctx, "inventory.SearchMovies",
		trace.WithAttributes(attribute.String("search.query", query)))
	defer span.End()

	return c.getMovies(ctx, c.baseURL+"/api/movies/search?title="+url.QueryEscape(query))
}

// Checkout asks the backend to decrement stock and register amount rental
// units of title. Insufficient stock is the backend's call to make.
func (c *InventoryClient) Checkout(ctx context.Context, title string, amount int) error {
	ctx, span := c.tracer.Start(ctx, "inventory.Checkout",
		trace.WithAttributes(
			attribute.String("movie.title", title),
			attribute.Int("rental.amount", amount),
		))
	defer span.End()

	return c.postMutation(ctx, c.baseURL+"/api/movies/checkout", title, amount)
}

// Return asks the backend to increment stock and release amount rental units
// of title.
func (c *InventoryClient) Return(ctx context.Context, title string, amount int) error {
	ctx, span := c.tracer.Start(ctx, "inventory.Return",
		trace.WithAttributes(
			attribute.String("movie.title", title),
			attribute.Int("rental.amount", amount),
		))
	defer span.End()

	return c.postMutation(ctx, c.baseURL+"/api/movies/return", title, amount)
}

func (c *InventoryClient) getMovies(ctx context.Context, rawURL string) ([]catalog.Movie, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var movies []catalog.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, err
	}

	return movies, nil
}

func (c *InventoryClient) postMutation(ctx context.Context, rawURL, title string, amount int) error {
	body, err := json.Marshal(struct {
		Title  string `json:"title"`
		Amount int    `json:"amount"`
	}{Title: title, Amount: amount})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
