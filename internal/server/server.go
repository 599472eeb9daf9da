// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/layout               lay out a diagram and store the result
//	POST   /v1/render               lay out and render, returning the artifact
//	GET    /v1/layouts/{id}         fetch a stored layout
//	GET    /v1/layouts/{id}/render  render a stored layout (?format=svg)
//	DELETE /v1/layouts/{id}         drop a stored layout
//	GET    /healthz                 liveness and build stamp
//
// Errors are JSON objects {"error": {"code", "message"}} with the status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/umlflow/pkg/pipeline"
	"github.com/matzehuels/umlflow/pkg/store"
)

// Config holds the configuration for the HTTP server.
type Config struct {
	Addr            string        // listen address (default: "127.0.0.1:8080")
	MaxBodyBytes    int64         // request body limit (default: 4 MiB)
	RequestTimeout  time.Duration // per-request deadline (default: 30s)
	CleanupInterval time.Duration // store cleanup period (default: 1h)
	RecordTTL       time.Duration // lifetime of stored layouts (default: store.DefaultTTL)
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8080"
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 4 << 20
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Hour
	}
	if c.RecordTTL <= 0 {
		c.RecordTTL = store.DefaultTTL
	}
}

// Server is the umlflow HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil runner gets an uncached one, a nil store an
// in-memory one and a nil logger a discard logger.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	cfg.SetDefaults()
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemoryStore()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger.WithPrefix("http"),
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully. Expired records are purged every CleanupInterval.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go s.cleanupLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("store cleanup failed", "err", err)
			}
		}
	}
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Route("/layouts/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Get("/render", s.handleRenderStored)
			r.Delete("/", s.handleDeleteLayout)
		})
	})

	return r
}
