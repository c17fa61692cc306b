package tenant

import (
	"context"

	"github.com/clubhouse/clubhouse/internal/rbac"
)

// Service applies role checks to tenant administration.
type Service struct {
	repo Repository
}

// NewService creates a new tenant Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInvite issues a sign-up invite for the caller's tenant.
func (s *Service) CreateInvite(ctx context.Context, id *rbac.Identity) (*Invite, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return nil, err
	}
	return s.repo.CreateInvite(ctx, id.TenantID)
}

// ListInvites lists the caller's tenant invites.
func (s *Service) ListInvites(ctx context.Context, id *rbac.Identity) ([]Invite, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return nil, err
	}
	return s.repo.ListInvites(ctx, id.TenantID)
}

// DeleteInvite revokes an invite of the caller's tenant.
func (s *Service) DeleteInvite(ctx context.Context, id *rbac.Identity, inviteID string) error {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return err
	}
	return s.repo.DeleteInvite(ctx, id.TenantID, inviteID)
}

// DeleteOwn deletes the caller's tenant together with all of its users.
func (s *Service) DeleteOwn(ctx context.Context, id *rbac.Identity) error {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return err
	}
	return s.repo.DeleteCascade(ctx, id.TenantID)
}
