package middleware

import (
	"net/http"

	"github.com/shaheen-020/pharmacy-backend/api/responses"
	pkgerrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/logger"
)

// RequireRole rejects requests whose actor role does not match.
func RequireRole(logg *logger.Logger, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "insufficient permissions")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
