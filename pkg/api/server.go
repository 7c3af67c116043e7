// Package api serves the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build information
//	GET  /metrics          Prometheus exposition (when a handler is configured)
//	POST /v1/layout        run ForceAtlas2 and return the positioned layout
//	POST /v1/render        run (or reuse) a layout and return one artifact
//
// Request bodies are JSON documents with a "graph" and optional "options"
// object using the same keys as the configuration file's [layout] table.
// Every response carries an X-Request-ID header.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/forceatlas/pkg/buildinfo"
	"github.com/matzehuels/forceatlas/pkg/errors"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

// Defaults for [Config] fields left at zero.
const (
	DefaultMaxBodyBytes    = 16 << 20
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner

	// Defaults are the options requests start from before applying their
	// own "options" object.
	Defaults pipeline.Options

	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler

	Logger          *log.Logger
	MaxBodyBytes    int64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end of the pipeline. It is safe for concurrent use.
type Server struct {
	runner          *pipeline.Runner
	defaults        pipeline.Options
	logger          *log.Logger
	maxBodyBytes    int64
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	build           buildinfo.Info
	router          chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	s := &Server{
		runner:          cfg.Runner,
		defaults:        cfg.Defaults,
		logger:          cfg.Logger,
		maxBodyBytes:    cfg.MaxBodyBytes,
		requestTimeout:  cfg.RequestTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
		build:           buildinfo.Get(),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusNotFound, errors.ErrCodeNotFound, "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeUnsupported, "method not allowed")
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", s.build.Version, "commit", s.build.Commit)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.runner.Close()
}
