package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/clubhouse/clubhouse/internal/database"
)

// ErrTenantNotFound is returned when a tenant record is not found.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrInviteNotFound is returned when an invite id matches no invite.
var ErrInviteNotFound = errors.New("invite not found")

// Repository provides operations on the tenants and tenant_invites tables.
type Repository interface {
	// CreateWith inserts a tenant inside tx under a freshly allocated id.
	CreateWith(ctx context.Context, tx pgx.Tx, title string) (*Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	// DeleteCascade removes the tenant and all of its users in one transaction.
	DeleteCascade(ctx context.Context, id string) error

	CreateInvite(ctx context.Context, tenantID string) (*Invite, error)
	ListInvites(ctx context.Context, tenantID string) ([]Invite, error)
	DeleteInvite(ctx context.Context, tenantID, id string) error
	// TenantForInvite resolves the tenant an invite belongs to using q.
	TenantForInvite(ctx context.Context, q database.Querier, inviteID string) (string, error)
}
