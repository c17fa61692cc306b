package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/rbac"
)

// Service applies role checks and tenant scoping to games and invites.
type Service struct {
	repo Repository
}

// NewService creates a new game Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create schedules a game for a team of the caller's tenant and invites every
// tenant user holding one of the invited roles.
func (s *Service) Create(ctx context.Context, id *rbac.Identity, p CreateParams) (*Created, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleCoach)); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateWithInvites(ctx, id.TenantID, p)
}

// Delete removes a game of the caller's tenant together with its invites.
func (s *Service) Delete(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) error {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleCoach)); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id.TenantID, gameID)
}

// ListForTeam lists the games of a team of the caller's tenant.
func (s *Service) ListForTeam(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) ([]Game, error) {
	if err := rbac.Check(id, rbac.AtLeast(rbac.RoleCoach)); err != nil {
		return nil, err
	}
	return s.repo.ListForTeam(ctx, id.TenantID, teamID)
}

// ListOwnInvites lists the caller's invites.
func (s *Service) ListOwnInvites(ctx context.Context, id *rbac.Identity) ([]Invite, error) {
	if id == nil {
		return nil, rbac.ErrNoIdentity
	}
	return s.repo.ListUserInvites(ctx, id.UserID)
}

// ListInvitesToGame lists who was invited to a game of the caller's tenant.
func (s *Service) ListInvitesToGame(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) ([]Invite, error) {
	if id == nil {
		return nil, rbac.ErrNoIdentity
	}
	return s.repo.ListGameInvites(ctx, id.TenantID, gameID)
}

// AnswerInvite records the caller's response to one of their own invites.
// Invites of other users are reported as not found.
func (s *Service) AnswerInvite(ctx context.Context, id *rbac.Identity, inviteID uuid.UUID, response string) (*Invite, error) {
	if id == nil {
		return nil, rbac.ErrNoIdentity
	}

	answer, err := ParseAnswer(response)
	if err != nil {
		return nil, err
	}

	return s.repo.AnswerInvite(ctx, id.UserID, inviteID, answer)
}
