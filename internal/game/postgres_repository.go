package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clubhouse/clubhouse/internal/database"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/team"
)

const gameColumns = `
	g.id, g.team_id, g.opponent, g.location, g.location_kind, g.invited_roles, g.created_at,
	e.id, e.start_time, e.stop_time`

const inviteColumns = `
	gi.id, gi.user_id, u.username, gi.game_id, gi.response, gi.created_at, gi.updated_at`

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// CreateWithInvites writes event, game and invites in order inside one
// transaction. Any failure rolls all of them back.
func (r *PostgresRepository) CreateWithInvites(ctx context.Context, tenantID string, p CreateParams) (*Created, error) {
	var created Created
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := teamInTenant(ctx, tx, tenantID, p.TeamID); err != nil {
			return err
		}

		g := Game{
			TeamID:       p.TeamID,
			Opponent:     p.Opponent,
			Location:     p.Location,
			LocationKind: p.LocationKind,
			InvitedRoles: p.InvitedRoles,
			Event:        Event{StartTime: p.StartTime, StopTime: p.StopTime},
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO events (start_time, stop_time) VALUES ($1, $2) RETURNING id`,
			p.StartTime, p.StopTime,
		).Scan(&g.Event.ID)
		if err != nil {
			return fmt.Errorf("inserting event: %w", err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO games (team_id, opponent, location, location_kind, event_id, invited_roles)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`,
			p.TeamID, p.Opponent, p.Location, string(p.LocationKind), g.Event.ID, rbac.Strings(p.InvitedRoles),
		).Scan(&g.ID, &g.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting game: %w", err)
		}

		invitees, err := invitees(ctx, tx, tenantID, p.InvitedRoles)
		if err != nil {
			return err
		}

		if len(invitees) > 0 {
			_, err = tx.Exec(ctx, `
				INSERT INTO game_invites (user_id, game_id, response)
				SELECT u, $2, 'pending' FROM UNNEST($1::uuid[]) AS u`,
				invitees, g.ID,
			)
			if err != nil {
				return fmt.Errorf("inserting game invites: %w", err)
			}
		}

		created = Created{Game: &g, Invited: len(invitees)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("game created", "gameId", created.Game.ID, "teamId", p.TeamID, "invited", created.Invited)
	return &created, nil
}

// invitees returns the deduplicated ids of tenant users holding any of roles.
func invitees(ctx context.Context, q database.Querier, tenantID string, roles []rbac.Role) ([]uuid.UUID, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	rows, err := q.Query(ctx, `
		SELECT u.id
		FROM users u
		JOIN role_assignments ra ON ra.user_id = u.id
		WHERE u.tenant_id = $1 AND ra.role = ANY($2)
		ORDER BY u.username ASC`,
		tenantID, rbac.Strings(roles),
	)
	if err != nil {
		return nil, fmt.Errorf("selecting invitees: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("scanning invitee rows: %w", err)
	}

	return DedupeIDs(ids), nil
}

func teamInTenant(ctx context.Context, q database.Querier, tenantID string, teamID uuid.UUID) error {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1 AND tenant_id = $2)`, teamID, tenantID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking team ownership: %w", err)
	}
	if !exists {
		return team.ErrTeamNotFound
	}
	return nil
}

// Delete removes a game whose team belongs to the tenant. Its event is
// removed by trigger and its invites by foreign key.
func (r *PostgresRepository) Delete(ctx context.Context, tenantID string, id uuid.UUID) error {
	query := `
		DELETE FROM games g
		USING teams t
		WHERE g.team_id = t.id AND g.id = $1 AND t.tenant_id = $2`

	result, err := r.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("deleting game: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrGameNotFound
	}

	return nil
}

// ListForTeam returns the team's games ordered by start time.
func (r *PostgresRepository) ListForTeam(ctx context.Context, tenantID string, teamID uuid.UUID) ([]Game, error) {
	if err := teamInTenant(ctx, r.pool, tenantID, teamID); err != nil {
		return nil, err
	}

	query := `
		SELECT` + gameColumns + `
		FROM games g
		JOIN events e ON e.id = g.event_id
		WHERE g.team_id = $1
		ORDER BY e.start_time ASC`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game rows: %w", err)
	}

	return games, nil
}

// ListUserInvites returns the user's invites, newest first.
func (r *PostgresRepository) ListUserInvites(ctx context.Context, userID uuid.UUID) ([]Invite, error) {
	query := `
		SELECT` + inviteColumns + `
		FROM game_invites gi
		JOIN users u ON u.id = gi.user_id
		WHERE gi.user_id = $1
		ORDER BY gi.created_at DESC`

	return r.listInvites(ctx, query, userID)
}

// ListGameInvites returns the invites of a game in the tenant, ordered by username.
func (r *PostgresRepository) ListGameInvites(ctx context.Context, tenantID string, gameID uuid.UUID) ([]Invite, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM games g JOIN teams t ON t.id = g.team_id
			WHERE g.id = $1 AND t.tenant_id = $2
		)`, gameID, tenantID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking game ownership: %w", err)
	}
	if !exists {
		return nil, ErrGameNotFound
	}

	query := `
		SELECT` + inviteColumns + `
		FROM game_invites gi
		JOIN users u ON u.id = gi.user_id
		WHERE gi.game_id = $1
		ORDER BY u.username ASC`

	return r.listInvites(ctx, query, gameID)
}

// AnswerInvite matches invite id, invite owner and caller together, so an
// invite of another user is never touched.
func (r *PostgresRepository) AnswerInvite(ctx context.Context, userID, inviteID uuid.UUID, response InviteResponse) (*Invite, error) {
	query := `
		UPDATE game_invites gi
		SET response = $3, updated_at = NOW()
		FROM users u
		WHERE gi.id = $1 AND gi.user_id = u.id AND u.id = $2
		RETURNING` + inviteColumns

	inv, err := scanInvite(r.pool.QueryRow(ctx, query, inviteID, userID, string(response)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("answering invite: %w", err)
	}

	return inv, nil
}

func (r *PostgresRepository) listInvites(ctx context.Context, query string, arg any) ([]Invite, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	invites := []Invite{}
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invites = append(invites, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}

	return invites, nil
}

func scanGame(row pgx.Row) (*Game, error) {
	var g Game
	var kind string
	var roles []string
	err := row.Scan(
		&g.ID, &g.TeamID, &g.Opponent, &g.Location, &kind, &roles, &g.CreatedAt,
		&g.Event.ID, &g.Event.StartTime, &g.Event.StopTime,
	)
	if err != nil {
		return nil, err
	}

	g.LocationKind = LocationKind(kind)
	if g.InvitedRoles, err = rbac.ParseRoles(roles); err != nil {
		return nil, err
	}

	return &g, nil
}

func scanInvite(row pgx.Row) (*Invite, error) {
	var inv Invite
	var response string
	err := row.Scan(&inv.ID, &inv.UserID, &inv.Username, &inv.GameID, &response, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Response = InviteResponse(response)
	return &inv, nil
}
