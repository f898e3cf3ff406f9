package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/symtower/pkg/observability"
)

// runIDHeader carries the run ID of a request.
const runIDHeader = "X-Run-ID"

type ctxKey int

const runIDKey ctxKey = 0

// runIDFromContext returns the run ID set by withRunID.
func runIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// withRunID assigns every request a fresh run ID.
func (s *Server) withRunID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(runIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), runIDKey, id)))
	})
}

// observe logs each request and reports it to the HTTP hooks. The route
// pattern, not the raw path, is reported.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)

		s.logger.Info("request",
			"run_id", runIDFromContext(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", elapsed)
	})
}
