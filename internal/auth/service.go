package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/session"
)

// Service provides authentication, sign-up and role administration.
type Service struct {
	repo       Repository
	sessions   session.Store
	sessionTTL time.Duration
	bcryptCost int

	// Compared against when the username is unknown so both failures cost one bcrypt check.
	dummyHash string
}

// NewService creates a new auth Service.
func NewService(repo Repository, sessions session.Store, sessionTTL time.Duration, bcryptCost int) *Service {
	dummy, err := HashPassword("clubhouse-unknown-user", bcryptCost)
	if err != nil {
		slog.Warn("could not prepare dummy password hash", "error", err)
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// SessionTTL is the lifetime of sessions created by this service.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Authenticate resolves a session token to the caller's identity. Roles are
// read from the store on every call.
func (s *Service) Authenticate(ctx context.Context, token string) (*rbac.Identity, error) {
	resolved, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	roles, err := rbac.ParseRoles(resolved.Roles)
	if err != nil {
		return nil, fmt.Errorf("parsing roles of user %s: %w", resolved.UserID, err)
	}

	return &rbac.Identity{
		UserID:    resolved.UserID,
		SessionID: resolved.SessionID,
		TenantID:  resolved.TenantID,
		Roles:     roles,
	}, nil
}

// Login verifies the password and opens a new session. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*Account, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			CheckPassword(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, u.ID, s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Account{UserID: u.ID, TenantID: u.TenantID, Session: sess}, nil
}

// SignUpWithNewTenant creates a tenant with the caller as its tenant admin.
func (s *Service) SignUpWithNewTenant(ctx context.Context, username, password, tenantTitle string) (*Account, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.CreateWithTenant(ctx, NewUser{Username: username, PasswordHash: hash}, tenantTitle, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	slog.Info("tenant created", "tenantId", acc.TenantID, "userId", acc.UserID)
	return acc, nil
}

// SignUpViaInvite creates a user in the invite's tenant. The user holds no
// role until a tenant admin assigns one.
func (s *Service) SignUpViaInvite(ctx context.Context, inviteID, username, password string) (*Account, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	acc, err := s.repo.CreateViaInvite(ctx, inviteID, NewUser{Username: username, PasswordHash: hash}, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	slog.Info("user joined via invite, role assignment required", "tenantId", acc.TenantID, "userId", acc.UserID)
	return acc, nil
}

// Logout destroys the session.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// grantWhitelist returns the roles allowed to grant or revoke role.
func grantWhitelist(role rbac.Role) []rbac.Role {
	if role == rbac.RoleSuperAdmin {
		return rbac.AtLeast(rbac.RoleSuperAdmin)
	}
	return rbac.AtLeast(rbac.RoleTenantAdmin)
}

// AssignRole grants role to a user of the caller's tenant.
func (s *Service) AssignRole(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) (*RoleAssignment, error) {
	if err := rbac.Check(id, grantWhitelist(role)); err != nil {
		return nil, err
	}
	return s.repo.AssignRole(ctx, id.TenantID, userID, role)
}

// UnassignRole revokes role from a user of the caller's tenant.
func (s *Service) UnassignRole(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) error {
	if err := rbac.Check(id, grantWhitelist(role)); err != nil {
		return err
	}
	return s.repo.UnassignRole(ctx, id.TenantID, userID, role)
}

// ListRoleAssignments lists every assignment in the caller's tenant.
func (s *Service) ListRoleAssignments(ctx context.Context, id *rbac.Identity) ([]RoleAssignment, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return nil, err
	}
	return s.repo.ListRoleAssignments(ctx, id.TenantID)
}

// ListOwnRoles lists the caller's own assignments. Any authenticated user may call it.
func (s *Service) ListOwnRoles(ctx context.Context, id *rbac.Identity) ([]RoleAssignment, error) {
	if id == nil {
		return nil, rbac.ErrNoIdentity
	}
	return s.repo.ListUserRoleAssignments(ctx, id.UserID)
}

// ListUsers lists the users of the caller's tenant.
func (s *Service) ListUsers(ctx context.Context, id *rbac.Identity) ([]User, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return nil, err
	}
	return s.repo.ListByTenant(ctx, id.TenantID)
}

// DeleteUser removes a user of the caller's tenant.
func (s *Service) DeleteUser(ctx context.Context, id *rbac.Identity, userID uuid.UUID) error {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleTenantAdmin)); err != nil {
		return err
	}
	return s.repo.DeleteInTenant(ctx, id.TenantID, userID)
}

// Bootstrap creates the initial tenant and super admin on first start.
// It returns false when the installation was already initialized.
func (s *Service) Bootstrap(ctx context.Context, tenantTitle, username, password string) (bool, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}

	created, err := s.repo.Bootstrap(ctx, tenantTitle, NewUser{Username: username, PasswordHash: hash})
	if err != nil {
		return false, fmt.Errorf("bootstrapping: %w", err)
	}

	if created {
		slog.Info("initial tenant and super admin created", "tenant", tenantTitle, "username", username)
	}
	return created, nil
}
