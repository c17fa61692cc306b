package middleware

import (
	"net/http"

	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/rbac"
)

// RequireRoles returns middleware that rejects identities holding none of
// the whitelisted roles with 403. Build the whitelist with rbac.AtLeast.
func RequireRoles(whitelist ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session cookie is required", requestID)
				return
			}

			if err := rbac.Check(identity, whitelist); err != nil {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", err.Error(), requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
