package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

// Tenants is the part of tenant.Service the tenant endpoints need.
type Tenants interface {
	CreateInvite(ctx context.Context, id *rbac.Identity) (*tenant.Invite, error)
	ListInvites(ctx context.Context, id *rbac.Identity) ([]tenant.Invite, error)
	DeleteInvite(ctx context.Context, id *rbac.Identity, inviteID string) error
	DeleteOwn(ctx context.Context, id *rbac.Identity) error
}

type tenantInviteResponse struct {
	ID        string `json:"id"`
	TenantID  string `json:"tenantId"`
	CreatedAt string `json:"createdAt"`
}

// TenantHandler handles tenant invites and tenant deletion.
type TenantHandler struct {
	tenants Tenants
}

// NewTenantHandler creates a new TenantHandler.
func NewTenantHandler(tenants Tenants) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// CreateInvite handles POST /api/invites-to-tenant/create.
func (h *TenantHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	inv, err := h.tenants.CreateInvite(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "create invite")
		return
	}

	response.Success(w, http.StatusCreated, toTenantInviteResponse(*inv), requestID)
}

// ListInvites handles GET /api/invites-to-tenant/list.
func (h *TenantHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	invites, err := h.tenants.ListInvites(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "list invites")
		return
	}

	items := make([]tenantInviteResponse, 0, len(invites))
	for _, inv := range invites {
		items = append(items, toTenantInviteResponse(inv))
	}
	response.SuccessList(w, items, len(items), requestID)
}

// DeleteInvite handles DELETE /api/invites-to-tenant/delete-by-id/{id}.
func (h *TenantHandler) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	if err := h.tenants.DeleteInvite(r.Context(), middleware.GetIdentity(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err, "delete invite")
		return
	}
	response.NoContent(w)
}

// DeleteOwn handles DELETE /api/tenants/delete-own. The caller's session is
// gone with the tenant, so the cookie is cleared.
func (h *TenantHandler) DeleteOwn(w http.ResponseWriter, r *http.Request) {
	if err := h.tenants.DeleteOwn(r.Context(), middleware.GetIdentity(r.Context())); err != nil {
		respondError(w, r, err, "delete tenant")
		return
	}
	middleware.ClearSessionCookie(w)
	response.NoContent(w)
}

func toTenantInviteResponse(inv tenant.Invite) tenantInviteResponse {
	return tenantInviteResponse{
		ID:        inv.ID,
		TenantID:  inv.TenantID,
		CreatedAt: formatTime(inv.CreatedAt),
	}
}
