package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubhouse/clubhouse/internal/database"
	"github.com/clubhouse/clubhouse/internal/idalloc"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &PostgresStore{pool: pool}
}

// Create inserts a new session on the pool.
func (s *PostgresStore) Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*Session, error) {
	return s.CreateWith(ctx, s.pool, userID, ttl)
}

// CreateWith inserts a new session with a fresh random token using q.
func (s *PostgresStore) CreateWith(ctx context.Context, q database.Querier, userID uuid.UUID, ttl time.Duration) (*Session, error) {
	token, err := idalloc.RandomString(TokenLength)
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES ($1, $2, NOW() + make_interval(secs => $3))
		RETURNING id, user_id, created_at, expires_at`

	var sess Session
	err = q.QueryRow(ctx, query, token, userID, ttl.Seconds()).Scan(
		&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	return &sess, nil
}

// Resolve joins the session with its user and role assignments. Expired
// sessions resolve as ErrNotFound even before the sweeper removes them.
func (s *PostgresStore) Resolve(ctx context.Context, token string) (*Resolved, error) {
	query := `
		SELECT s.id, u.id, u.tenant_id, s.expires_at,
		       COALESCE(array_agg(ra.role ORDER BY ra.role) FILTER (WHERE ra.role IS NOT NULL), '{}') AS roles
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		LEFT JOIN role_assignments ra ON ra.user_id = u.id
		WHERE s.id = $1 AND s.expires_at > NOW()
		GROUP BY s.id, u.id`

	var r Resolved
	err := s.pool.QueryRow(ctx, query, token).Scan(
		&r.SessionID, &r.UserID, &r.TenantID, &r.ExpiresAt, &r.Roles,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolving session: %w", err)
	}

	if r.Roles == nil {
		r.Roles = []string{}
	}

	return &r, nil
}

// Destroy deletes the session row unconditionally.
func (s *PostgresStore) Destroy(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry has passed.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return result.RowsAffected(), nil
}
