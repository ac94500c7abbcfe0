// Package internal provides the main application initialization and
// runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/zyaga/clipnote/internal/api"
	"github.com/zyaga/clipnote/internal/history"
	"github.com/zyaga/clipnote/internal/index"
	"github.com/zyaga/clipnote/internal/mcpserver"
	"github.com/zyaga/clipnote/internal/pipeline"
	"github.com/zyaga/clipnote/internal/sse"
	"github.com/zyaga/clipnote/internal/storage"
	"github.com/zyaga/clipnote/internal/terms"
	"github.com/zyaga/clipnote/internal/watch"
)

// runtime bundles the wired components shared by every entry mode.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	store  storage.Provider
	hist   *history.Store
	db     *index.DB // nil when the index is disabled
	pipe   *pipeline.Pipeline
}

func (r *runtime) close() {
	if r.db != nil {
		_ = r.db.Close()
	}
}

func newRuntime(opts ...Option) (*runtime, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	// Ensure the inbox directory exists.
	if err := os.MkdirAll(cfg.Inbox.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Inbox.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// The history document lives inside the inbox; opening repairs it.
	histPath := filepath.Join(cfg.Inbox.Path, cfg.Inbox.HistoryFile)
	hist, err := history.Open(histPath, cfg.Pipeline.DedupeMaxRecords)
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}

	var db *index.DB
	if cfg.SQLite.Path != "" {
		db, err = index.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init index: %w", err)
		}
	}

	an := app.analyzer
	if an == nil {
		kg, err := terms.NewKagomeAnalyzer()
		if err != nil {
			logger.Warn("analyzer unavailable, noun extraction disabled",
				slog.String("error", err.Error()))
		} else {
			an = kg
		}
	}

	var idx index.CaptureIndex
	if db != nil {
		idx = db
	}
	pipe := pipeline.New(cfg.Pipeline.Options(), store, hist, idx, an, logger)

	logger.Info("Configuration loaded",
		slog.String("inbox_path", cfg.Inbox.Path),
		slog.String("history_path", histPath),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return &runtime{cfg: cfg, logger: logger, store: store, hist: hist, db: db, pipe: pipe}, nil
}

// CaptureOnce runs the pipeline on a single text and returns the result.
func CaptureOnce(ctx context.Context, text string, opts ...Option) (*pipeline.Result, error) {
	rt, err := newRuntime(opts...)
	if err != nil {
		return nil, err
	}
	defer rt.close()
	return rt.pipe.Run(ctx, text)
}

// SearchIndex queries the capture index.
func SearchIndex(_ context.Context, query string, limit int, opts ...Option) ([]index.SearchResult, error) {
	rt, err := newRuntime(opts...)
	if err != nil {
		return nil, err
	}
	defer rt.close()
	if rt.db == nil {
		return nil, fmt.Errorf("capture index is disabled (sqlite.path is empty)")
	}
	return rt.db.Search(query, limit)
}

// RunWatch runs the drop-directory trigger until ctx is cancelled.
func RunWatch(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}
	defer rt.close()
	if rt.cfg.Watch.DropDir == "" {
		return fmt.Errorf("watch.drop_dir is not configured")
	}
	return watch.Run(ctx, rt.pipe, rt.cfg.Watch.DropDir, rt.cfg.Watch.ArchiveDir, rt.logger, nil)
}

// RunMCP serves the MCP tools over stdio until the stream closes.
func RunMCP(_ context.Context, opts ...Option) error {
	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}
	defer rt.close()
	var idx index.CaptureIndex
	if rt.db != nil {
		idx = rt.db
	}
	return mcpserver.New(rt.pipe, rt.store, idx).ServeStdio()
}

// Run starts serve mode: the HTTP capture API, the SSE event stream,
// and (when configured) the drop-directory watcher.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := newRuntime(opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := rt.cfg
	logger := rt.logger

	broker := sse.NewBroker()
	defer broker.Close()

	var idx index.CaptureIndex
	if rt.db != nil {
		idx = rt.db
	}
	svc := api.NewHandler(rt.pipe, idx, func(res *pipeline.Result) {
		broker.PublishCapture(res)
	})
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

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

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Drop-directory trigger, when configured.
	if cfg.Watch.DropDir != "" {
		g.Go(func() error {
			return watch.Run(gCtx, rt.pipe, cfg.Watch.DropDir, cfg.Watch.ArchiveDir, logger,
				func(res *pipeline.Result) {
					broker.PublishCapture(res)
				})
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

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
