package middleware

import (
	"net/http"

	"github.com/spectral-labs/auth-api/internal/domain"
	"github.com/spectral-labs/auth-api/internal/transport/http/response"
)

// RequireAtLeast gates a route on a minimum role. Must run after
// Authenticator.Require.
func RequireAtLeast(min domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				response.WriteError(w, r, domain.ErrTokenMissing())
				return
			}
			if domain.RoleRank(role) < domain.RoleRank(string(min)) {
				response.WriteError(w, r, domain.ErrInsufficientRole(string(min)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
