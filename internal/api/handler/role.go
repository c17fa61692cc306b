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

// Roles is the part of auth.Service the role endpoints need.
type Roles interface {
	ListRoleAssignments(ctx context.Context, id *rbac.Identity) ([]auth.RoleAssignment, error)
	ListOwnRoles(ctx context.Context, id *rbac.Identity) ([]auth.RoleAssignment, error)
	AssignRole(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) (*auth.RoleAssignment, error)
	UnassignRole(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) error
}

type roleAssignmentRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,oneof=super_admin tenant_admin coach player"`
}

type roleAssignmentResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// RoleHandler handles role assignment endpoints.
type RoleHandler struct {
	roles Roles
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roles Roles) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List handles GET /api/roles/list.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.roles.ListRoleAssignments(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "list roles")
		return
	}
	writeAssignments(w, r, assignments)
}

// ListOwn handles GET /api/roles/list-own.
func (h *RoleHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.roles.ListOwnRoles(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "list roles")
		return
	}
	writeAssignments(w, r, assignments)
}

// Assign handles POST /api/roles/assign. Assigning a role the user already
// holds returns the existing assignment.
func (h *RoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	req, ok := h.decodeAssignment(w, r)
	if !ok {
		return
	}

	a, err := h.roles.AssignRole(r.Context(), middleware.GetIdentity(r.Context()), req.userID, req.role)
	if err != nil {
		respondError(w, r, err, "assign role")
		return
	}

	response.Success(w, http.StatusCreated, toRoleAssignmentResponse(*a), requestID)
}

// Unassign handles DELETE /api/roles/unassign.
func (h *RoleHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAssignment(w, r)
	if !ok {
		return
	}

	if err := h.roles.UnassignRole(r.Context(), middleware.GetIdentity(r.Context()), req.userID, req.role); err != nil {
		respondError(w, r, err, "unassign role")
		return
	}

	response.NoContent(w)
}

type assignment struct {
	userID uuid.UUID
	role   rbac.Role
}

func (h *RoleHandler) decodeAssignment(w http.ResponseWriter, r *http.Request) (assignment, bool) {
	var req roleAssignmentRequest
	if !decode(w, r, &req) {
		return assignment{}, false
	}

	// Both fields were validated above.
	userID, _ := uuid.Parse(req.UserID)
	role, _ := rbac.ParseRole(req.Role)
	return assignment{userID: userID, role: role}, true
}

func writeAssignments(w http.ResponseWriter, r *http.Request, assignments []auth.RoleAssignment) {
	items := make([]roleAssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, toRoleAssignmentResponse(a))
	}
	response.SuccessList(w, items, len(items), middleware.GetRequestID(r.Context()))
}

func toRoleAssignmentResponse(a auth.RoleAssignment) roleAssignmentResponse {
	return roleAssignmentResponse{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		Username:  a.Username,
		Role:      string(a.Role),
		CreatedAt: formatTime(a.CreatedAt),
	}
}
