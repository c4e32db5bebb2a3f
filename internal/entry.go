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

	"github.com/sietev/posverdad/internal/api"
	"github.com/sietev/posverdad/internal/bulk"
	"github.com/sietev/posverdad/internal/mcpserver"
	"github.com/sietev/posverdad/internal/source"
	"github.com/sietev/posverdad/internal/sse"
	"github.com/sietev/posverdad/internal/state"
	"github.com/sietev/posverdad/internal/store"
)

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

	// Initialize structured JSON logger. In MCP mode stdout carries the
	// protocol, so logs go to stderr.
	logOut := os.Stdout
	if app.mcp {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source_url", cfg.Source.URL),
		slog.String("source_path", cfg.Source.Path),
		slog.String("state_path", cfg.State.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Persisted client state.
	db, err := state.Open(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("init state db: %w", err)
	}
	defer db.Close()

	// Article store, seeded from the persisted session.
	st := store.New()
	sessionFilters, selectionID := db.LoadSession(logger)
	st.ReplaceFilters(sessionFilters)

	// Data source.
	var provider source.Provider
	var fileSource *source.File
	if cfg.Source.URL != "" {
		provider = source.NewHTTP(cfg.Source.URL)
	} else {
		fileSource = source.NewFile(cfg.Source.Path)
		provider = fileSource
	}

	// Initial load. Failure is recoverable; the collection starts empty
	// and a later reload can still succeed.
	if err := source.Load(ctx, st, provider, logger); err != nil {
		logger.Warn("initial load failed", slog.String("error", err.Error()))
	}
	if selectionID != "" && st.Select(selectionID) {
		logger.Info("session selection restored", slog.String("article", selectionID))
	}

	// SSE broker, wired as the store's change hook.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()
	st.SetNotify(broker.PublishStoreEvent)

	// Bulk coordinator exists only when the feature flag is on.
	coord := bulk.New(cfg.Features.Bulk, st)

	svc := api.NewService(st, db, coord, provider, logger)
	defer svc.Close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher when configured.
	if fileSource != nil && cfg.Source.Watch {
		g.Go(func() error {
			return source.Watch(gCtx, st, fileSource, logger, nil)
		})
	}

	if app.mcp {
		return runMCP(gCtx, g, st, coord, logger)
	}

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

// runMCP serves the tool surface over stdio instead of HTTP. The
// watcher goroutine, if any, keeps running in the same group.
func runMCP(ctx context.Context, g *errgroup.Group, st *store.Store, coord *bulk.Coordinator, logger *slog.Logger) error {
	srv := mcpserver.New(st, coord)

	g.Go(func() error {
		logger.Info("Starting MCP server on stdio")
		return srv.ServeStdio()
	})

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("MCP server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
