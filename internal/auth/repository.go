package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/rbac"
)

// ErrUserNotFound is returned when a user record is not found in the caller's tenant.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when signing up with a username that already exists.
var ErrUsernameTaken = errors.New("username already taken")

// ErrInvalidCredentials is returned when a login does not match any user.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Repository provides operations on users and their role assignments.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]User, error)
	DeleteInTenant(ctx context.Context, tenantID string, id uuid.UUID) error

	// CreateWithTenant creates a tenant, its first user as tenant admin and a
	// session for that user in one transaction.
	CreateWithTenant(ctx context.Context, u NewUser, tenantTitle string, ttl time.Duration) (*Account, error)
	// CreateViaInvite creates a user in the invite's tenant and a session in
	// one transaction. No role is assigned.
	CreateViaInvite(ctx context.Context, inviteID string, u NewUser, ttl time.Duration) (*Account, error)

	// AssignRole is idempotent: assigning a held role returns the existing row.
	AssignRole(ctx context.Context, tenantID string, userID uuid.UUID, role rbac.Role) (*RoleAssignment, error)
	// UnassignRole is idempotent for users of the tenant.
	UnassignRole(ctx context.Context, tenantID string, userID uuid.UUID, role rbac.Role) error
	ListRoleAssignments(ctx context.Context, tenantID string) ([]RoleAssignment, error)
	ListUserRoleAssignments(ctx context.Context, userID uuid.UUID) ([]RoleAssignment, error)

	// Bootstrap creates the first tenant and its super admin unless the
	// installation is already initialized. It reports whether it created them.
	Bootstrap(ctx context.Context, tenantTitle string, u NewUser) (bool, error)
}
