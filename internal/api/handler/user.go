package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/auth"
	"github.com/clubhouse/clubhouse/internal/rbac"
)

// Users is the part of auth.Service the user endpoints need.
type Users interface {
	ListUsers(ctx context.Context, id *rbac.Identity) ([]auth.User, error)
	DeleteUser(ctx context.Context, id *rbac.Identity, userID uuid.UUID) error
}

type userResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	TenantID  string   `json:"tenantId"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt"`
}

// UserHandler handles the tenant's user list.
type UserHandler struct {
	users Users
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users Users) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /api/users/list.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	users, err := h.users.ListUsers(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "list users")
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse{
			ID:        u.ID.String(),
			Username:  u.Username,
			TenantID:  u.TenantID,
			Roles:     rbac.Strings(u.Roles),
			CreatedAt: formatTime(u.CreatedAt),
		})
	}

	response.SuccessList(w, items, len(items), requestID)
}

// Delete handles DELETE /api/users/delete-by-id/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), middleware.GetIdentity(r.Context()), userID); err != nil {
		respondError(w, r, err, "delete user")
		return
	}

	response.NoContent(w)
}
