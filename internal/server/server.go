// Package server exposes the analysis pipeline over HTTP.
//
// # Routes
//
//	GET  /api/health     liveness and build version
//	GET  /api/kinds      supported analysis kinds
//	POST /api/analyses   run one analysis on an inline table
//
// An analysis request carries the table in row-oriented form:
//
//	{
//	  "kind": "price_volume_mix",
//	  "options": {"value": "price", "weight": "volume", "period": "year", "group": "product"},
//	  "columns": ["product", "year", "price", "volume"],
//	  "rows": [["A", "FY23", 10, 1000], ["A", "FY24", 11, 1000]]
//	}
//
// Errors are JSON bodies with the error code; the HTTP status follows the
// code (see errors.HTTPStatus).
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/matzehuels/slidechart/pkg/config"
	"github.com/matzehuels/slidechart/pkg/observability"
	"github.com/matzehuels/slidechart/pkg/pipeline"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	cfg    *config.Config
	logger *log.Logger
	hooks  observability.HTTPHooks
}

// New creates a server. A nil logger uses the default logger and nil hooks
// discard events.
func New(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger, hooks observability.HTTPHooks) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if hooks == nil {
		hooks = observability.NoopHTTPHooks{}
	}
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return &Server{runner: runner, cfg: cfg, logger: logger, hooks: hooks}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", s.health)
		r.Get("/kinds", s.kinds)
		r.With(middleware.AllowContentType("application/json")).Post("/analyses", s.analyze)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// RequestIDFromContext returns the id assigned by the request-id middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := RequestIDFromContext(r.Context())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		s.hooks.OnRequest(r.Context(), id, r.Method, r.URL.Path)
		defer func() {
			s.hooks.OnResponse(r.Context(), id, r.Method, r.URL.Path, ww.Status(), time.Since(start))
		}()
		next.ServeHTTP(ww, r)
	})
}
