package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"filemarket/internal/auth"
	"filemarket/internal/cache"
	"filemarket/internal/config"
	"filemarket/internal/events"
	"filemarket/internal/storage"
	"filemarket/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// Use JSON traced logging
	baseHandler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(telemetry.NewTraceHandler(baseHandler))
	slog.SetDefault(logger)

	cfg, err := config.LoadGateway()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracer := func(context.Context) error { return nil }
	if cfg.OtelCollectorURL != "" {
		shutdownTracer, err = telemetry.InitTracer(ctx, "files-gateway", cfg.Env, cfg.OtelCollectorURL)
		if err != nil {
			slog.Error("Failed to initialise tracing", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Connecting to Redis cache", "addr", cfg.RedisAddr)
	rdb, err := cache.NewRedisClient(cache.Config{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}

	slog.Info("Connecting to database")
	conn, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	slog.Info("Connecting to object storage", "endpoint", cfg.S3Endpoint)
	store, err := storage.NewMinioProvider(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3UseSSL)
	if err != nil {
		slog.Error("Failed to initialize MinIO provider", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureBuckets(ctx, storage.BucketIncoming, storage.BucketPublic); err != nil {
		slog.Error("Failed to prepare buckets", "error", err)
		os.Exit(1)
	}

	slog.Info("Connecting to event bus", "endpoint", cfg.NatsURL)
	eventBus, err := events.NewNATSBus(cfg.NatsURL, "files-gateway", logger)
	if err != nil {
		slog.Error("Failed to initialize event bus", "error", err)
		os.Exit(1)
	}

	slog.Info("Connecting to authorization service", "url", cfg.AuthorizationURL)
	authenticator, err := auth.NewAuthenticator(ctx, cfg.AuthorizationURL, cfg.AuthClientID)
	if err != nil {
		slog.Error("Failed to initialize authenticator", "error", err)
		os.Exit(1)
	}

	app := &application{
		config:         cfg,
		events:         events.NewEventConfig(),
		conn:           conn,
		authenticator:  authenticator,
		eventBus:       eventBus,
		storage:        store,
		logger:         logger,
		cache:          rdb,
		shutdownTracer: shutdownTracer,
	}

	if err := app.run(app.mount()); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

// coverURLs joins the public asset base and an object key.
func coverURLs(base string) func(key string) string {
	base = strings.TrimSuffix(base, "/") + "/"
	return func(key string) string {
		return base + strings.TrimPrefix(key, "/")
	}
}
