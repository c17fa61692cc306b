package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubhouse/clubhouse/internal/database"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (tenant_id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.TenantID, t.Name, t.Slug).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateTeamSlug
		}
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team of the tenant.
func (r *PostgresRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, tenant_id, name, slug, created_at, updated_at
		FROM teams
		WHERE id = $1 AND tenant_id = $2`

	var t Team
	err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(
		&t.ID, &t.TenantID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// List retrieves the tenant's teams ordered by name.
func (r *PostgresRepository) List(ctx context.Context, tenantID string) ([]Team, error) {
	query := `
		SELECT id, tenant_id, name, slug, created_at, updated_at
		FROM teams
		WHERE tenant_id = $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}

// Update renames a team of the tenant.
func (r *PostgresRepository) Update(ctx context.Context, t *Team) error {
	query := `
		UPDATE teams
		SET name = $3, slug = $4, updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.ID, t.TenantID, t.Name, t.Slug).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTeamNotFound
		}
		if database.IsUniqueViolation(err) {
			return ErrDuplicateTeamSlug
		}
		return fmt.Errorf("updating team: %w", err)
	}

	return nil
}

// Delete removes a team of the tenant. Its games, their events and invites
// are removed by the store.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}
