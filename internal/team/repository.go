package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team does not exist in the caller's tenant.
var ErrTeamNotFound = errors.New("team not found")

// ErrDuplicateTeamSlug is returned when the tenant already has a team with the same slug.
var ErrDuplicateTeamSlug = errors.New("team slug already exists")

// ErrInvalidSlug is returned when no slug can be derived from the given name.
var ErrInvalidSlug = errors.New("slug must contain at least one letter or digit")

// Repository provides tenant-scoped CRUD operations on the teams table.
type Repository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Team, error)
	List(ctx context.Context, tenantID string) ([]Team, error)
	// Update writes Name and Slug of the team identified by ID and TenantID.
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
}
