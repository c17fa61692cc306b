package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/session"
)

// User represents a row in the users table together with its role assignments.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	TenantID     string
	Roles        []rbac.Role
	CreatedAt    time.Time
}

// NewUser carries the columns needed to insert a user. The password is
// already hashed.
type NewUser struct {
	Username     string
	PasswordHash string
}

// Account is the result of a successful login or sign-up: the user and the
// session the client must now carry.
type Account struct {
	UserID   uuid.UUID
	TenantID string
	Session  *session.Session
}

// RoleAssignment represents a row in the role_assignments table.
type RoleAssignment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Username  string
	Role      rbac.Role
	CreatedAt time.Time
}
