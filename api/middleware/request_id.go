package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/shaheen-020/pharmacy-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID reuses an inbound request id when present so callers can
// correlate retries, otherwise it mints one.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			ctx := logg.WithRequestID(r.Context(), requestID)
			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
