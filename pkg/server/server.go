// Package server exposes the contraction pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/contract    contract a graph, returns a mapping
//	POST /v1/hierarchy   mappings for every level 0..levels
//	POST /v1/render      draw the quotient graph of a mapping
//	GET  /healthz        liveness and build information
//
// Request bodies carry the graph as a [graph.Document]. Every response has
// an X-Request-ID header; JSON responses repeat it as request_id.
// Validation failures are reported as 400 with the error code, e.g.
//
//	{"error": "INVALID_ITERATIONS", "message": "iterations must be >= 0, got -1", "request_id": "..."}
//
// Browser clients need [WithAllowedOrigins]; without it no CORS headers are
// sent.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/matzehuels/coarsen/pkg/pipeline"
)

const (
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 64 << 20

	// DefaultRenderTimeout bounds a single /v1/render request.
	DefaultRenderTimeout = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner        *pipeline.Runner
	logger        *log.Logger
	router        chi.Router
	origins       []string
	renderTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins enables CORS for browser clients on the given origins.
// "*" allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithRenderTimeout overrides [DefaultRenderTimeout]. Renders that run past
// it fail with TIMEOUT and status 504.
func WithRenderTimeout(d time.Duration) Option {
	return func(s *Server) { s.renderTimeout = d }
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, renderTimeout: DefaultRenderTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
		}).Handler)
	}
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(s.handleNotFound)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/contract", s.handleContract)
		r.Post("/hierarchy", s.handleHierarchy)
		r.Post("/render", s.handleRender)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
