package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filemarket/internal/config"
	repo "filemarket/internal/database/postgresql/sqlc"
	"filemarket/internal/events"
	"filemarket/internal/indexing"
	"filemarket/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	handler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(telemetry.NewTraceHandler(handler))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		slog.Error("Application terminated with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadIndexer()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Info("Starting files indexer", "env", cfg.Env)

	if cfg.OtelCollectorURL != "" {
		shutdownTracer, err := telemetry.InitTracer(ctx, "files-indexer", cfg.Env, cfg.OtelCollectorURL)
		if err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
		defer shutdownTracer(context.Background())
	}

	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping db: %w", err)
	}

	bus, err := events.NewNATSBus(cfg.NatsURL, "files-indexer", logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}

	indexer := indexing.NewClient(cfg.TypesenseKey, cfg.TypesenseURL)
	svc := indexing.NewService(indexer, repo.New(dbPool), logger, cfg.PublicAssetBaseURL)

	reader := events.NewEventReader(bus, events.NewEventConfig(), logger)
	err = reader.SubscribeToIndexListingEvents(func(ctx context.Context, evt events.IndexListingEvent) error {
		return svc.IndexListing(ctx, evt.ListingID)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}

	logger.Info("Worker is running and listening for events...")

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: healthHandler(dbPool, indexer),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logger.Info("Shutting down worker...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown error", "error", err)
	}

	// Drain finishes in-flight messages so no listing is left half indexed.
	if err := bus.Drain(); err != nil {
		logger.Error("NATS drain error", "error", err)
	}

	if err := indexer.Close(); err != nil {
		logger.Error("Indexer close error", "error", err)
	}

	logger.Info("Shutdown complete.")
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports 503 when either the database or Typesense is unreachable.
func healthHandler(db pinger, search indexing.Indexer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			http.Error(w, "Database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := search.HealthCheck(ctx); err != nil {
			http.Error(w, "Search unavailable", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
