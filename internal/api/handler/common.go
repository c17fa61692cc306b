package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/api/validation"
	"github.com/clubhouse/clubhouse/internal/auth"
	"github.com/clubhouse/clubhouse/internal/game"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/team"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON body into dst and validates it. It writes the error
// response and returns false when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return false
	}

	if fieldErrors := validation.Struct(dst); len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return false
	}

	return true
}

// uuidParam parses a chi URL parameter as a UUID, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", name+" must be a valid UUID", middleware.GetRequestID(r.Context()))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps domain errors to HTTP responses. Anything unrecognised is
// logged and reported as a generic 500 naming the failed action.
func respondError(w http.ResponseWriter, r *http.Request, err error, action string) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, rbac.ErrNoIdentity):
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session cookie is required", requestID)
	case errors.Is(err, rbac.ErrForbidden):
		response.Err(w, http.StatusForbidden, "FORBIDDEN", err.Error(), requestID)
	case errors.Is(err, auth.ErrUserNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
	case errors.Is(err, team.ErrTeamNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
	case errors.Is(err, game.ErrGameNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Game not found", requestID)
	case errors.Is(err, game.ErrInviteNotFound), errors.Is(err, tenant.ErrInviteNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Invite not found", requestID)
	case errors.Is(err, tenant.ErrTenantNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Tenant not found", requestID)
	case errors.Is(err, auth.ErrUsernameTaken):
		response.Err(w, http.StatusConflict, "USERNAME_TAKEN", "Username is already taken", requestID)
	case errors.Is(err, team.ErrDuplicateTeamSlug):
		response.Err(w, http.StatusConflict, "DUPLICATE_SLUG", "A team with this slug already exists", requestID)
	case errors.Is(err, team.ErrInvalidSlug), errors.Is(err, game.ErrInvalidGame), errors.Is(err, game.ErrInvalidResponse):
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), requestID)
	default:
		slog.Error("request failed", "action", action, "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action, requestID)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
