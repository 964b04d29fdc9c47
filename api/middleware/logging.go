package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Kushal-prime/kushalwearback/pkg/logger"
	"github.com/Kushal-prime/kushalwearback/pkg/metrics"
)

// Logging emits one structured line per request and feeds the prometheus
// request metrics.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			metrics.ObserveRequest(r.Method, route, ww.Status(), elapsed)

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": elapsed.Milliseconds(),
				"bytes":       ww.BytesWritten(),
			})
			logg.Info(ctx, "request completed")
		})
	}
}
