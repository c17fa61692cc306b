package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/rbac"
)

// LocationKind says where a game takes place relative to the team.
type LocationKind string

const (
	LocationHome  LocationKind = "home"
	LocationAway  LocationKind = "away"
	LocationOther LocationKind = "other"
)

// ParseLocationKind validates a location kind.
func ParseLocationKind(s string) (LocationKind, error) {
	switch k := LocationKind(s); k {
	case LocationHome, LocationAway, LocationOther:
		return k, nil
	}
	return "", fmt.Errorf("unknown location kind %q", s)
}

// InviteResponse is the state of a game invite. Invites start as pending and
// can only move to one of the answered states.
type InviteResponse string

const (
	ResponsePending  InviteResponse = "pending"
	ResponseAccepted InviteResponse = "accepted"
	ResponseDeclined InviteResponse = "declined"
	ResponseUnsure   InviteResponse = "unsure"
)

// ParseAnswer validates a response a user may give. Pending is not an answer.
func ParseAnswer(s string) (InviteResponse, error) {
	switch r := InviteResponse(s); r {
	case ResponseAccepted, ResponseDeclined, ResponseUnsure:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidResponse, s)
}

// Event is the schedule slot owned by exactly one game.
type Event struct {
	ID        uuid.UUID
	StartTime time.Time
	StopTime  *time.Time
}

// Game represents a row in the games table joined with its event.
type Game struct {
	ID           uuid.UUID
	TeamID       uuid.UUID
	Opponent     string
	Location     string
	LocationKind LocationKind
	InvitedRoles []rbac.Role
	Event        Event
	CreatedAt    time.Time
}

// Invite represents a row in the game_invites table.
type Invite struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Username  string
	GameID    uuid.UUID
	Response  InviteResponse
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams describes a game to schedule.
type CreateParams struct {
	TeamID       uuid.UUID
	Opponent     string
	Location     string
	LocationKind LocationKind
	InvitedRoles []rbac.Role
	StartTime    time.Time
	StopTime     *time.Time
}

// Validate checks the parts of p the store cannot express as a user-facing error.
func (p CreateParams) Validate() error {
	if _, err := ParseLocationKind(string(p.LocationKind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGame, err)
	}
	for _, r := range p.InvitedRoles {
		if _, err := rbac.ParseRole(string(r)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidGame, err)
		}
	}
	if p.StopTime != nil && p.StopTime.Before(p.StartTime) {
		return fmt.Errorf("%w: stop time is before start time", ErrInvalidGame)
	}
	return nil
}

// Created is the result of scheduling a game.
type Created struct {
	Game    *Game
	Invited int
}
