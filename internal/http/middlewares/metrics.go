package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clinicia-hq/clinicia-server/internal/metrics"
)

// WithMetrics observa cada request en prometheus. Usa el route pattern
// de chi (no el path crudo) para mantener la cardinalidad acotada.
func WithMetrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			metrics.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
