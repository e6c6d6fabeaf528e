// Package server exposes map generation over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build version
//	GET  /v1/formats              supported output formats
//	GET  /v1/resolve/{count}      layout plan for one cell count
//	POST /v1/maps                 generate a map; JSON options in, artifacts out
//	GET  /v1/maps/{format}        generate a map and return one raw artifact
//
// Every route passes through request IDs, panic recovery, CORS and a
// per-client token bucket.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/matzehuels/lodgrid/pkg/config"
	"github.com/matzehuels/lodgrid/pkg/observability"
	"github.com/matzehuels/lodgrid/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve context is cancelled.
const shutdownTimeout = 10 * time.Second

// Server serves the lodgrid HTTP API.
type Server struct {
	cfg     config.ServerConfig
	runner  *pipeline.Runner
	logger  *log.Logger
	hooks   observability.HTTPHooks
	limiter *RateLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithHooks sets the HTTP hooks notified for every request.
func WithHooks(h observability.HTTPHooks) Option {
	return func(s *Server) {
		if h != nil {
			s.hooks = h
		}
	}
}

// New creates a server that generates maps with runner.
func New(cfg config.ServerConfig, runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		logger: logger.WithPrefix("http"),
		hooks:  observability.NoopHTTPHooks{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = NewRateLimiter(RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		TrustProxy:        cfg.TrustProxy,
	}, s.logger)
	return s
}

// Handler returns the routed API with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(s.corsHandler().Handler)
	r.Use(s.limiter.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Get("/resolve/{count}", s.handleResolve)
		r.Post("/maps", s.handleCreateMap)
		r.Get("/maps/{format}", s.handleMapArtifact)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND", Message: "no route for " + r.URL.Path, Code: http.StatusNotFound})
	})
	return r
}

func (s *Server) corsHandler() *cors.Cors {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.logger.Debug("CORS configured", "allowed_origins", origins)
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	})
}

// observe logs every request and reports it to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond))
	})
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.limiter.Close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.limiter.Close()
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return err
}

// Close stops background work started by New.
func (s *Server) Close() {
	s.limiter.Close()
}
