package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shaheen-020/pharmacy-backend/pkg/metrics"
)

// Metrics records request counts, latency and in-flight gauge per chi
// route pattern so path parameters do not explode label cardinality.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if httpMetrics == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			httpMetrics.IncInFlight()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			httpMetrics.DecInFlight()
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			httpMetrics.Observe(route, r.Method, recorder.status, time.Since(start))
		})
	}
}
