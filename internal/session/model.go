package session

import (
	"time"

	"github.com/google/uuid"
)

// TokenLength is the number of alphanumeric characters in a session token.
const TokenLength = 16

// Session represents a row in the sessions table. The ID is the bearer token.
type Session struct {
	ID        string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Resolved is a live session joined with its user and role assignments.
// Roles is empty, not nil, for a user without assignments.
type Resolved struct {
	SessionID string
	UserID    uuid.UUID
	TenantID  string
	Roles     []string
	ExpiresAt time.Time
}
