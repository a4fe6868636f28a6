package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/shaheen-020/pharmacy-backend/pkg/config"
)

func CORS(cfg config.AppConfig) func(http.Handler) http.Handler {
	origins := []string{"https://*"}
	if cfg.IsDev() {
		origins = append(origins, "http://localhost:3000", "http://localhost:5173")
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-Id", "X-Actor-Role"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
