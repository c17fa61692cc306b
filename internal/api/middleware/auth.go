package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/session"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves a session token to the caller's identity.
// Unknown or expired tokens yield session.ErrNotFound.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*rbac.Identity, error)
}

// Auth is middleware that resolves the session cookie to an Identity. A
// missing cookie returns 401. A cookie that resolves to no live session
// returns 401 and overwrites the cookie with an expired one. Roles are not
// checked here.
func Auth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := SessionToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session cookie is required", requestID)
				return
			}

			identity, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					ClearSessionCookie(w)
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session is invalid or expired", requestID)
					return
				}
				slog.Error("failed to resolve session", "error", err, "requestId", requestID)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *rbac.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the authenticated Identity from the request context.
func GetIdentity(ctx context.Context) *rbac.Identity {
	if id, ok := ctx.Value(identityKey).(*rbac.Identity); ok {
		return id
	}
	return nil
}
