package game

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrGameNotFound is returned when a game does not exist in the caller's tenant.
var ErrGameNotFound = errors.New("game not found")

// ErrInviteNotFound is returned when an invite does not exist or is not the caller's.
var ErrInviteNotFound = errors.New("invite not found")

// ErrInvalidGame is returned when game parameters are inconsistent.
var ErrInvalidGame = errors.New("invalid game")

// ErrInvalidResponse is returned when an invite answer is not accepted, declined or unsure.
var ErrInvalidResponse = errors.New("invalid invite response")

// Repository provides tenant-scoped operations on games and their invites.
type Repository interface {
	// CreateWithInvites writes the event, the game and one pending invite per
	// matching user in a single transaction.
	CreateWithInvites(ctx context.Context, tenantID string, p CreateParams) (*Created, error)
	Delete(ctx context.Context, tenantID string, id uuid.UUID) error
	ListForTeam(ctx context.Context, tenantID string, teamID uuid.UUID) ([]Game, error)

	ListUserInvites(ctx context.Context, userID uuid.UUID) ([]Invite, error)
	ListGameInvites(ctx context.Context, tenantID string, gameID uuid.UUID) ([]Invite, error)
	// AnswerInvite updates only an invite owned by userID.
	AnswerInvite(ctx context.Context, userID, inviteID uuid.UUID, response InviteResponse) (*Invite, error)
}
