// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/auralis/elysia/internal/api"
	"github.com/auralis/elysia/internal/catalog"
	"github.com/auralis/elysia/internal/collab"
	"github.com/auralis/elysia/internal/kvstore"
	"github.com/auralis/elysia/internal/mcpserver"
	"github.com/auralis/elysia/internal/migrate"
	"github.com/auralis/elysia/internal/notes"
	"github.com/auralis/elysia/internal/sse"
	"github.com/auralis/elysia/internal/watch"
)

// openStore opens the configured key-value backend.
func openStore(cfg *Config) (kvstore.Store, error) {
	switch cfg.Store.Backend {
	case BackendMemory:
		return kvstore.NewMemory(), nil
	case BackendSQLite:
		return kvstore.OpenSQLite(cfg.Store.Path)
	default:
		return kvstore.NewFile(cfg.Store.Path)
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("store_path", cfg.Store.Path),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Load the album catalog.
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	// Open the key-value store.
	kv, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer kv.Close()

	// Repair legacy reflections before anything reads them. A failed
	// migration leaves the legacy data untouched, so it only warns.
	if report, migErr := migrate.Run(kv, cat); migErr != nil {
		logger.Warn("legacy meta migration failed", slog.String("error", migErr.Error()))
	} else {
		logger.Info("legacy meta migration done",
			slog.Int("updated", report.Updated),
			slog.Int("total", report.Total))
	}

	// Content stores.
	noteStore := notes.NewStore(kv)
	threadStore := collab.NewStore(kv)

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build API router.
	apiRouter := api.NewRouter(noteStore, threadStore, cat, broker, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// With the file backend, watch the data directory and announce
	// external rewrites over SSE.
	if fileKV, ok := kv.(*kvstore.File); ok {
		g.Go(func() error {
			if err := watch.Watch(gCtx, fileKV.Root(), logger, broker.PublishStoreChanged); err != nil {
				logger.Warn("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP starts the Studio MCP server on stdio. Logs go to stderr so they do
// not corrupt the protocol stream.
func RunMCP(_ context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	kv, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer kv.Close()

	if report, migErr := migrate.Run(kv, cat); migErr != nil {
		logger.Warn("legacy meta migration failed", slog.String("error", migErr.Error()))
	} else if report.Updated > 0 {
		logger.Info("legacy meta migration done",
			slog.Int("updated", report.Updated),
			slog.Int("total", report.Total))
	}

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(notes.NewStore(kv), cat).ServeStdio()
}
