package team

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/clubhouse/clubhouse/internal/rbac"
)

// Service applies tenant scoping and role checks to team management.
type Service struct {
	repo Repository
}

// NewService creates a new team Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// makeSlug normalizes the requested slug, deriving it from name when empty.
func makeSlug(name, requested string) (string, error) {
	src := requested
	if src == "" {
		src = name
	}
	s := slug.Make(src)
	if s == "" {
		return "", ErrInvalidSlug
	}
	return s, nil
}

// Create adds a team to the caller's tenant.
func (s *Service) Create(ctx context.Context, id *rbac.Identity, name, requestedSlug string) (*Team, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return nil, err
	}

	sl, err := makeSlug(name, requestedSlug)
	if err != nil {
		return nil, err
	}

	t := &Team{TenantID: id.TenantID, Name: name, Slug: sl}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a team of the caller's tenant.
func (s *Service) Get(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) (*Team, error) {
	if id == nil {
		return nil, rbac.ErrNoIdentity
	}
	return s.repo.GetByID(ctx, id.TenantID, teamID)
}

// List returns the teams of the caller's tenant.
func (s *Service) List(ctx context.Context, id *rbac.Identity) ([]Team, error) {
	if id == nil {
		return nil, rbac.ErrNoIdentity
	}
	return s.repo.List(ctx, id.TenantID)
}

// Update renames a team of the caller's tenant.
func (s *Service) Update(ctx context.Context, id *rbac.Identity, teamID uuid.UUID, name, requestedSlug string) (*Team, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return nil, err
	}

	sl, err := makeSlug(name, requestedSlug)
	if err != nil {
		return nil, err
	}

	t := &Team{ID: teamID, TenantID: id.TenantID, Name: name, Slug: sl}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a team of the caller's tenant.
func (s *Service) Delete(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) error {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id.TenantID, teamID)
}
