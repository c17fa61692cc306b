package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubhouse/clubhouse/internal/database"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/session"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool     *pgxpool.Pool
	tenants  tenant.Repository
	sessions session.Store
}

// NewRepository creates a new Repository backed by the given connection pool.
// Sign-up writes tenants and sessions through the given collaborators inside
// its own transaction.
func NewRepository(pool *pgxpool.Pool, tenants tenant.Repository, sessions session.Store) Repository {
	return &PostgresRepository{pool: pool, tenants: tenants, sessions: sessions}
}

// GetByUsername retrieves a user and its roles by username.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.tenant_id, u.created_at,
		       COALESCE(array_agg(ra.role ORDER BY ra.role) FILTER (WHERE ra.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN role_assignments ra ON ra.user_id = u.id
		WHERE u.username = $1
		GROUP BY u.id`

	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return u, nil
}

// ListByTenant retrieves every user of the tenant, ordered by username.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.tenant_id, u.created_at,
		       COALESCE(array_agg(ra.role ORDER BY ra.role) FILTER (WHERE ra.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN role_assignments ra ON ra.user_id = u.id
		WHERE u.tenant_id = $1
		GROUP BY u.id
		ORDER BY u.username ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

// DeleteInTenant deletes a user of the tenant. Sessions, role assignments and
// game invites follow through foreign keys.
func (r *PostgresRepository) DeleteInTenant(ctx context.Context, tenantID string, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateWithTenant runs tenant, user, role and session inserts in one transaction.
func (r *PostgresRepository) CreateWithTenant(ctx context.Context, u NewUser, tenantTitle string, ttl time.Duration) (*Account, error) {
	var acc Account
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		t, err := r.tenants.CreateWith(ctx, tx, tenantTitle)
		if err != nil {
			return err
		}

		userID, err := insertUser(ctx, tx, u, t.ID)
		if err != nil {
			return err
		}

		if err := insertRole(ctx, tx, userID, rbac.RoleTenantAdmin); err != nil {
			return err
		}

		sess, err := r.sessions.CreateWith(ctx, tx, userID, ttl)
		if err != nil {
			return err
		}

		acc = Account{UserID: userID, TenantID: t.ID, Session: sess}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &acc, nil
}

// CreateViaInvite resolves the invite's tenant and creates the user and session
// in one transaction.
func (r *PostgresRepository) CreateViaInvite(ctx context.Context, inviteID string, u NewUser, ttl time.Duration) (*Account, error) {
	var acc Account
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tenantID, err := r.tenants.TenantForInvite(ctx, tx, inviteID)
		if err != nil {
			return err
		}

		userID, err := insertUser(ctx, tx, u, tenantID)
		if err != nil {
			return err
		}

		sess, err := r.sessions.CreateWith(ctx, tx, userID, ttl)
		if err != nil {
			return err
		}

		acc = Account{UserID: userID, TenantID: tenantID, Session: sess}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &acc, nil
}

// AssignRole inserts the assignment only when the user belongs to the tenant.
// The no-op update makes RETURNING yield the existing row on conflict.
func (r *PostgresRepository) AssignRole(ctx context.Context, tenantID string, userID uuid.UUID, role rbac.Role) (*RoleAssignment, error) {
	query := `
		WITH target AS (
			SELECT id, username FROM users WHERE id = $1 AND tenant_id = $2
		), ins AS (
			INSERT INTO role_assignments (user_id, role)
			SELECT id, $3 FROM target
			ON CONFLICT (user_id, role) DO UPDATE SET role = EXCLUDED.role
			RETURNING id, user_id, role, created_at
		)
		SELECT ins.id, ins.user_id, target.username, ins.role, ins.created_at
		FROM ins JOIN target ON target.id = ins.user_id`

	a, err := scanAssignment(r.pool.QueryRow(ctx, query, userID, tenantID, string(role)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("assigning role: %w", err)
	}

	return a, nil
}

// UnassignRole deletes the assignment of a user in the tenant. Removing a role
// the user does not hold succeeds; an unknown or foreign user does not.
func (r *PostgresRepository) UnassignRole(ctx context.Context, tenantID string, userID uuid.UUID, role rbac.Role) error {
	query := `
		DELETE FROM role_assignments ra
		USING users u
		WHERE ra.user_id = u.id AND u.id = $1 AND u.tenant_id = $2 AND ra.role = $3`

	result, err := r.pool.Exec(ctx, query, userID, tenantID, string(role))
	if err != nil {
		return fmt.Errorf("unassigning role: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		err := r.pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND tenant_id = $2)", userID, tenantID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("checking user existence: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}
	}

	return nil
}

// ListRoleAssignments returns every assignment in the tenant, ordered by username then role.
func (r *PostgresRepository) ListRoleAssignments(ctx context.Context, tenantID string) ([]RoleAssignment, error) {
	query := `
		SELECT ra.id, ra.user_id, u.username, ra.role, ra.created_at
		FROM role_assignments ra
		JOIN users u ON u.id = ra.user_id
		WHERE u.tenant_id = $1
		ORDER BY u.username ASC, ra.role ASC`

	return r.listAssignments(ctx, query, tenantID)
}

// ListUserRoleAssignments returns the assignments of a single user.
func (r *PostgresRepository) ListUserRoleAssignments(ctx context.Context, userID uuid.UUID) ([]RoleAssignment, error) {
	query := `
		SELECT ra.id, ra.user_id, u.username, ra.role, ra.created_at
		FROM role_assignments ra
		JOIN users u ON u.id = ra.user_id
		WHERE u.id = $1
		ORDER BY ra.role ASC`

	return r.listAssignments(ctx, query, userID)
}

// Bootstrap locks the app_config row so concurrent starts create the first
// tenant at most once.
func (r *PostgresRepository) Bootstrap(ctx context.Context, tenantTitle string, u NewUser) (bool, error) {
	created := false
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var initialized bool
		if err := tx.QueryRow(ctx, `SELECT is_initialized FROM app_config FOR UPDATE`).Scan(&initialized); err != nil {
			return fmt.Errorf("reading app config: %w", err)
		}
		if initialized {
			return nil
		}

		t, err := r.tenants.CreateWith(ctx, tx, tenantTitle)
		if err != nil {
			return err
		}

		userID, err := insertUser(ctx, tx, u, t.ID)
		if err != nil {
			return err
		}

		if err := insertRole(ctx, tx, userID, rbac.RoleSuperAdmin); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE app_config SET is_initialized = TRUE`); err != nil {
			return fmt.Errorf("marking app initialized: %w", err)
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

func (r *PostgresRepository) listAssignments(ctx context.Context, query string, arg any) ([]RoleAssignment, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing role assignments: %w", err)
	}
	defer rows.Close()

	assignments := []RoleAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning role assignment row: %w", err)
		}
		assignments = append(assignments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating role assignment rows: %w", err)
	}

	return assignments, nil
}

func insertUser(ctx context.Context, q database.Querier, u NewUser, tenantID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, tenant_id) VALUES ($1, $2, $3) RETURNING id`,
		u.Username, u.PasswordHash, tenantID,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return uuid.Nil, ErrUsernameTaken
		}
		return uuid.Nil, fmt.Errorf("inserting user: %w", err)
	}
	return id, nil
}

func insertRole(ctx context.Context, q database.Querier, userID uuid.UUID, role rbac.Role) error {
	_, err := q.Exec(ctx,
		`INSERT INTO role_assignments (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING`,
		userID, string(role),
	)
	if err != nil {
		return fmt.Errorf("inserting role assignment: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var roles []string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.TenantID, &u.CreatedAt, &roles); err != nil {
		return nil, err
	}

	parsed, err := rbac.ParseRoles(roles)
	if err != nil {
		return nil, err
	}
	u.Roles = parsed

	return &u, nil
}

func scanAssignment(row pgx.Row) (*RoleAssignment, error) {
	var a RoleAssignment
	var role string
	if err := row.Scan(&a.ID, &a.UserID, &a.Username, &role, &a.CreatedAt); err != nil {
		return nil, err
	}

	parsed, err := rbac.ParseRole(role)
	if err != nil {
		return nil, err
	}
	a.Role = parsed

	return &a, nil
}
