package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filemarket/internal/auth"
	"filemarket/internal/cache"
	"filemarket/internal/config"
	repo "filemarket/internal/database/postgresql/sqlc"
	"filemarket/internal/events"
	"filemarket/internal/handlers/approvals"
	"filemarket/internal/handlers/covers"
	"filemarket/internal/handlers/listings"
	"filemarket/internal/idempotency"
	"filemarket/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type application struct {
	config         *config.Gateway
	events         *events.EventConfig
	conn           *pgxpool.Pool
	cache          *cache.RedisClient
	authenticator  *auth.Authenticator
	storage        *storage.MinioProvider
	eventBus       events.Bus
	logger         *slog.Logger
	shutdownTracer func(context.Context) error
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", idempotency.HeaderKey},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	slog.Info("Allowed origins", "origin", app.config.FrontendOrigin)

	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	queries := repo.New(app.conn)
	eventHandler := events.NewEventHandler(app.eventBus, app.events, app.logger)
	publicCache := cache.NewTyped[listings.PublicListing](app.cache, "listing:public", app.config.PublicCacheTTL)
	urls := coverURLs(app.config.PublicAssetBaseURL)

	coverService := covers.NewService(app.storage, covers.Config{
		MaxSize:      app.config.CoverMaxSize,
		UploadWindow: app.config.CoverUploadTTL,
	}, app.logger)
	coversHandler := covers.NewHandler(coverService)

	listingsService := listings.NewListingsService(listings.Deps{
		Repo:      queries,
		DB:        app.conn,
		Logger:    app.logger,
		Policy:    app.config.Policy(),
		Covers:    coverService,
		Cache:     publicCache,
		Events:    eventHandler,
		CoverURLs: urls,
	})
	listingsHandler := listings.NewListingsHandler(listingsService, app.config.CoverMaxSize)

	approvalsService := approvals.NewApprovalsService(approvals.Deps{
		Repo:      queries,
		DB:        app.conn,
		Logger:    app.logger,
		Cache:     publicCache,
		Covers:    coverService,
		Events:    eventHandler,
		CoverURLs: urls,
	})
	approvalsHandler := approvals.NewApprovalsHandler(approvalsService)

	idempotent := idempotency.Idempotency(idempotency.NewStore(app.cache))

	// Public routes
	r.Get("/listings/{id}", listingsHandler.GetPublic)

	r.Group(func(r chi.Router) {
		r.Use(app.authenticator.Middleware)

		r.Get("/files", listingsHandler.ListForOwner)
		r.Get("/files/{id}", listingsHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(idempotent)

			r.Post("/files", listingsHandler.CreateDraft)
			r.Post("/files/{id}", listingsHandler.Submit)
			r.Put("/files/{id}", listingsHandler.Update)
			r.Post("/covers/presign", coversHandler.PresignUpload)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleAdmin))

			r.Get("/approvals", approvalsHandler.ListPending)
			r.Get("/files/{id}/preview", approvalsHandler.Preview)

			r.Group(func(r chi.Router) {
				r.Use(idempotent)

				r.Post("/files/{id}/approval/accept", approvalsHandler.AcceptPending)
				r.Post("/files/{id}/approval/reject", approvalsHandler.RejectPending)
				r.Post("/approvals/{approvalID}/accept", approvalsHandler.AcceptApproval)
				r.Post("/approvals/{approvalID}/reject", approvalsHandler.RejectApproval)
			})
		})
	})

	return r
}

func (app *application) run(h http.Handler) error {
	svr := &http.Server{
		Addr:         ":" + app.config.APIPort,
		Handler:      h,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute * 1,
	}

	serverErr := make(chan error, 1)
	slog.Info("Starting server", "addr", svr.Addr)
	go func() {
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for Interrupt Signal (Ctrl+C or Docker Stop)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		return err
	}

	// Drain lets in-flight publishes finish
	if err := app.eventBus.Drain(); err != nil {
		slog.Error("NATS drain failed", "error", err)
	}

	app.conn.Close()

	if err := app.cache.Close(); err != nil {
		slog.Error("Redis close failed", "error", err)
	}

	if err := app.shutdownTracer(ctx); err != nil {
		slog.Error("Tracer shutdown failed", "error", err)
	}

	slog.Info("Server exited properly")
	return nil
}
