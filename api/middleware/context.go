package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const actorRoleKey contextKey = "actor_role"

const (
	RoleAdmin      = "admin"
	RolePharmacist = "pharmacist"
)

// ActorContext records who is making the request. Until an identity
// provider lands, the caller declares its role via the X-Actor-Role
// header and unknown values degrade to pharmacist.
func ActorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Actor-Role")))
		if role != RoleAdmin {
			role = RolePharmacist
		}
		ctx := context.WithValue(r.Context(), actorRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(actorRoleKey).(string); ok {
		return role
	}
	return RolePharmacist
}
