// cmd/storefront/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/time/rate"

	"movierental/internal/catalog"
	"movierental/internal/clients"
	"movierental/internal/rental"
	"movierental/internal/store"
	"movierental/internal/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	inventoryURL := getEnv("INVENTORY_API_URL", "http://localhost:5154")
	statePath := getEnv("STATE_DB", "storefront.db")
	port := getEnv("PORT", "8080")

	shutdownTracing := initTracing(logger)
	defer shutdownTracing()

	stateStore, err := store.Open(statePath)
	if err != nil {
		log.Fatalf("Failed to open state store: %v", err)
	}
	defer stateStore.Close()

	inventory := clients.NewInventoryClient(inventoryURL)
	catalogSvc := catalog.NewService(inventory, logger)
	rentalSvc := rental.NewService(inventory, catalogSvc, stateStore, logger)
	defer rentalSvc.Close()
	defer catalogSvc.Close()

	if err := catalogSvc.Refresh(context.Background()); err != nil {
		logger.Error("initial catalog fetch failed", "error", err)
	}

	validate := validator.New()
	catalogHandler := catalog.NewHandler(catalogSvc, logger)
	rentalHandler := rental.NewHandler(rentalSvc, catalogSvc, logger, validate)

	pages, err := web.NewHandler(catalogSvc, rentalSvc, logger)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	router := chi.NewRouter()
	router.Use(rateLimit(rate.NewLimiter(rate.Limit(50), 100)))
	router.Route("/api", func(r chi.Router) {
		catalogHandler.Routes(r)
		rentalHandler.Routes(r)
	})
	router.Get("/", pages.HandleHome)
	router.Get("/rentals", pages.HandleRentals)

	logger.Info("starting storefront", "port", port, "inventory", inventoryURL)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// rateLimit rejects requests once the shared limiter is exhausted.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// initTracing wires the OTLP trace exporter when an endpoint is configured;
// otherwise spans stay no-ops.
func initTracing(logger *slog.Logger) func() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return func() {}
	}

	exporter, err := otlptracehttp.New(context.Background())
	if err != nil {
		logger.Error("failed to create trace exporter", "error", err)
		return func() {}
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", "error", err)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
