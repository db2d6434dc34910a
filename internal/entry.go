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

	"github.com/visperhq/visper/internal/api"
	"github.com/visperhq/visper/internal/auth"
	"github.com/visperhq/visper/internal/blob"
	"github.com/visperhq/visper/internal/journal"
	"github.com/visperhq/visper/internal/mcpserver"
	"github.com/visperhq/visper/internal/scraper"
	"github.com/visperhq/visper/internal/sse"
	"github.com/visperhq/visper/internal/store"
	"github.com/visperhq/visper/internal/venice"
)

// newVerifier builds the token resolver for the configured auth mode.
func newVerifier(cfg *AuthConfig) auth.Verifier {
	if cfg.AuthEnabled() {
		return auth.NewTokenRegistry(cfg.Tokens)
	}
	return auth.StaticUser(cfg.LocalUser)
}

// buildService assembles the journal service and its collaborators.
// The returned cleanup closes the entry store.
func buildService(cfg *Config, events journal.EventSink) (*journal.Service, func(), error) {
	if err := os.MkdirAll(cfg.Media.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create media dir: %w", err)
	}

	entries, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	blobs, err := blob.NewFS(cfg.Media.Path, "/media")
	if err != nil {
		entries.Close()
		return nil, nil, fmt.Errorf("init media storage: %w", err)
	}

	enricher := venice.NewClient(cfg.Venice.BaseURL, cfg.Venice.APIKey, cfg.Venice.Model, cfg.Venice.Timeout())
	fetcher := scraper.New(cfg.Scraper.Timeout())

	svc := journal.NewService(entries, blobs, enricher, fetcher, events)
	cleanup := func() {
		if err := entries.Close(); err != nil {
			slog.Error("store close failed", slog.String("error", err.Error()))
		}
	}
	return svc, cleanup, nil
}

// Run starts the HTTP application with the given options.
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
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("media_path", cfg.Media.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	svc, cleanup, err := buildService(cfg, broker)
	if err != nil {
		return err
	}
	defer cleanup()

	// Build API router.
	verifier := newVerifier(&cfg.Auth)
	apiRouter := api.NewRouter(svc, verifier, broker)
	media := api.NewMediaHandler(cfg.Media.Path)

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

	// Stored images, referenced by entry imageUrl and the export document.
	r.Get("/media/*", media.ServeFile)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

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

// RunMCP starts the MCP stdio server against the same journal store.
// It acts as the configured local user and logs to stderr, since stdout
// carries the protocol stream.
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

	svc, cleanup, err := buildService(cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("MCP server starting on stdio", slog.String("user", cfg.Auth.LocalUser))
	return mcpserver.New(svc, cfg.Auth.LocalUser).ServeStdio()
}
