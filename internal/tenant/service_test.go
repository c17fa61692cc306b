package tenant_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhouse/clubhouse/internal/database"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

// --- Mock Tenant Repository ---

type mockRepo struct {
	createInviteFn  func(ctx context.Context, tenantID string) (*tenant.Invite, error)
	deleteInviteFn  func(ctx context.Context, tenantID, id string) error
	deleteCascadeFn func(ctx context.Context, id string) error
}

func (m *mockRepo) CreateWith(ctx context.Context, tx pgx.Tx, title string) (*tenant.Tenant, error) {
	return nil, nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return nil, tenant.ErrTenantNotFound
}

func (m *mockRepo) DeleteCascade(ctx context.Context, id string) error {
	if m.deleteCascadeFn != nil {
		return m.deleteCascadeFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) CreateInvite(ctx context.Context, tenantID string) (*tenant.Invite, error) {
	if m.createInviteFn != nil {
		return m.createInviteFn(ctx, tenantID)
	}
	return &tenant.Invite{ID: "inv", TenantID: tenantID}, nil
}

func (m *mockRepo) ListInvites(ctx context.Context, tenantID string) ([]tenant.Invite, error) {
	return []tenant.Invite{}, nil
}

func (m *mockRepo) DeleteInvite(ctx context.Context, tenantID, id string) error {
	if m.deleteInviteFn != nil {
		return m.deleteInviteFn(ctx, tenantID, id)
	}
	return nil
}

func (m *mockRepo) TenantForInvite(ctx context.Context, q database.Querier, inviteID string) (string, error) {
	return "", tenant.ErrInviteNotFound
}

func caller(roles ...rbac.Role) *rbac.Identity {
	return &rbac.Identity{UserID: uuid.New(), SessionID: "sess", TenantID: "T00001", Roles: roles}
}

func TestService_CreateInvite_ScopedToCallerTenant(t *testing.T) {
	var gotTenant string
	svc := tenant.NewService(&mockRepo{
		createInviteFn: func(_ context.Context, tenantID string) (*tenant.Invite, error) {
			gotTenant = tenantID
			return &tenant.Invite{ID: "inv", TenantID: tenantID}, nil
		},
	})

	inv, err := svc.CreateInvite(context.Background(), caller(rbac.RoleTenantAdmin))
	require.NoError(t, err)
	assert.Equal(t, "T00001", gotTenant)
	assert.Equal(t, "inv", inv.ID)
}

func TestService_CreateInvite_CoachForbidden(t *testing.T) {
	svc := tenant.NewService(&mockRepo{})

	_, err := svc.CreateInvite(context.Background(), caller(rbac.RoleCoach, rbac.RolePlayer))
	assert.ErrorIs(t, err, rbac.ErrForbidden)
}

func TestService_DeleteOwn_RequiresTenantAdmin(t *testing.T) {
	called := false
	svc := tenant.NewService(&mockRepo{
		deleteCascadeFn: func(context.Context, string) error {
			called = true
			return nil
		},
	})

	err := svc.DeleteOwn(context.Background(), caller(rbac.RolePlayer))
	assert.ErrorIs(t, err, rbac.ErrForbidden)
	assert.False(t, called)

	require.NoError(t, svc.DeleteOwn(context.Background(), caller(rbac.RoleSuperAdmin)))
	assert.True(t, called)
}

func TestService_DeleteInvite_PropagatesNotFound(t *testing.T) {
	svc := tenant.NewService(&mockRepo{
		deleteInviteFn: func(context.Context, string, string) error {
			return tenant.ErrInviteNotFound
		},
	})

	err := svc.DeleteInvite(context.Background(), caller(rbac.RoleTenantAdmin), "missing")
	assert.ErrorIs(t, err, tenant.ErrInviteNotFound)
}
