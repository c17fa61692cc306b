package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/database"
)

// ErrNotFound is returned when a token matches no live session.
var ErrNotFound = errors.New("session not found")

// Store maps opaque session tokens to users.
type Store interface {
	// Create starts a session for userID that expires after ttl.
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*Session, error)
	// CreateWith is Create running on q, typically a caller's transaction.
	CreateWith(ctx context.Context, q database.Querier, userID uuid.UUID, ttl time.Duration) (*Session, error)
	Resolve(ctx context.Context, token string) (*Resolved, error)
	// Destroy deletes the session. Destroying an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
