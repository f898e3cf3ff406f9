// Package server implements the symtower HTTP API.
//
// Endpoints:
//
//	POST /v1/detect   detect symmetry, replay fixings and branchings
//	POST /v1/break    like detect, with symmetry-breaking constraints on
//	GET  /healthz     liveness
//	GET  /metrics     Prometheus metrics
//
// Models are posted as the request body (see pkg/httputil for the
// accepted formats). Options are passed as query parameters. Every request
// gets a run ID, returned in the X-Run-ID header and in the response body.
//
// With a cache set, a repeated request for the same model bytes, endpoint
// and options is answered from the cache and marked "cached".
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/symtower/pkg/cache"
	"github.com/matzehuels/symtower/pkg/config"
	"github.com/matzehuels/symtower/pkg/pipeline"
)

const (
	// readHeaderTimeout bounds the time to read request headers.
	readHeaderTimeout = 10 * time.Second

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 5 * time.Second
)

// Server serves the HTTP API. It is safe for concurrent use; every request
// runs its own session.
type Server struct {
	cfg     config.Config
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *Metrics
	cache   cache.Cache
	router  chi.Router
}

// New creates a server. metrics may be nil, in which case /metrics is not
// served.
func New(cfg config.Config, logger *log.Logger, metrics *Metrics) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:     cfg,
		runner:  pipeline.NewRunner(logger),
		logger:  logger,
		metrics: metrics,
		cache:   cache.NewNullCache(),
	}
	s.router = s.routes()
	return s
}

// SetCache replaces the response cache. It must be called before serving.
func (s *Server) SetCache(c cache.Cache) {
	if c == nil {
		c = cache.NewNullCache()
	}
	s.cache = c
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.withRunID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/detect", s.handleDetect)
		r.Post("/break", s.handleBreak)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
