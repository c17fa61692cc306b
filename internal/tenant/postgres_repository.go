package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubhouse/clubhouse/internal/database"
	"github.com/clubhouse/clubhouse/internal/idalloc"
)

const inviteIDLength = 16

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool  *pgxpool.Pool
	alloc *idalloc.Allocator
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool, alloc *idalloc.Allocator) Repository {
	return &PostgresRepository{pool: pool, alloc: alloc}
}

// CreateWith allocates a short random id and inserts the tenant. Each attempt
// runs in its own savepoint so that a collision does not abort tx.
func (r *PostgresRepository) CreateWith(ctx context.Context, tx pgx.Tx, title string) (*Tenant, error) {
	query := `
		INSERT INTO tenants (id, title)
		VALUES ($1, $2)
		RETURNING id, title, created_at, updated_at`

	var t Tenant
	_, err := r.alloc.Allocate(ctx, "tenant", func(ctx context.Context, candidate string) (string, error) {
		err := database.WithTx(ctx, tx, func(sp pgx.Tx) error {
			return sp.QueryRow(ctx, query, candidate, title).Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
		})
		if err != nil {
			return "", fmt.Errorf("inserting tenant: %w", err)
		}
		return t.ID, nil
	})
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// GetByID retrieves a single tenant by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	query := `
		SELECT id, title, created_at, updated_at
		FROM tenants
		WHERE id = $1`

	var t Tenant
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("querying tenant: %w", err)
	}

	return &t, nil
}

// DeleteCascade deletes the tenant's users, then the tenant. Teams, games,
// invites and sessions follow through foreign keys.
func (r *PostgresRepository) DeleteCascade(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE tenant_id = $1`, id); err != nil {
			return fmt.Errorf("deleting tenant users: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting tenant: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrTenantNotFound
		}
		return nil
	})
}

// CreateInvite inserts a new invite with a random 16-character id.
func (r *PostgresRepository) CreateInvite(ctx context.Context, tenantID string) (*Invite, error) {
	id, err := idalloc.RandomString(inviteIDLength)
	if err != nil {
		return nil, fmt.Errorf("generating invite id: %w", err)
	}

	query := `
		INSERT INTO tenant_invites (id, tenant_id)
		VALUES ($1, $2)
		RETURNING id, tenant_id, created_at`

	var inv Invite
	if err := r.pool.QueryRow(ctx, query, id, tenantID).Scan(&inv.ID, &inv.TenantID, &inv.CreatedAt); err != nil {
		return nil, fmt.Errorf("inserting invite: %w", err)
	}

	return &inv, nil
}

// ListInvites returns the tenant's invites, newest first.
func (r *PostgresRepository) ListInvites(ctx context.Context, tenantID string) ([]Invite, error) {
	query := `
		SELECT id, tenant_id, created_at
		FROM tenant_invites
		WHERE tenant_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	invites := []Invite{}
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}

	return invites, nil
}

// DeleteInvite removes an invite of the given tenant.
func (r *PostgresRepository) DeleteInvite(ctx context.Context, tenantID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tenant_invites WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrInviteNotFound
	}
	return nil
}

// TenantForInvite returns the tenant id the invite belongs to.
func (r *PostgresRepository) TenantForInvite(ctx context.Context, q database.Querier, inviteID string) (string, error) {
	var tenantID string
	err := q.QueryRow(ctx, `SELECT tenant_id FROM tenant_invites WHERE id = $1`, inviteID).Scan(&tenantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInviteNotFound
		}
		return "", fmt.Errorf("querying invite: %w", err)
	}
	return tenantID, nil
}
