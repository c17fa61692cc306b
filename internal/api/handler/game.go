package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/game"
	"github.com/clubhouse/clubhouse/internal/rbac"
)

// Games is the part of game.Service the game and game invite endpoints need.
type Games interface {
	Create(ctx context.Context, id *rbac.Identity, p game.CreateParams) (*game.Created, error)
	Delete(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) error
	ListForTeam(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) ([]game.Game, error)
	ListOwnInvites(ctx context.Context, id *rbac.Identity) ([]game.Invite, error)
	ListInvitesToGame(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) ([]game.Invite, error)
	AnswerInvite(ctx context.Context, id *rbac.Identity, inviteID uuid.UUID, response string) (*game.Invite, error)
}

type createGameRequest struct {
	TeamID       string     `json:"teamId" validate:"required,uuid"`
	Opponent     string     `json:"opponent" validate:"required,notblank,max=200"`
	Location     string     `json:"location" validate:"required,notblank,max=200"`
	LocationKind string     `json:"locationKind" validate:"required,oneof=home away other"`
	InvitedRoles []string   `json:"invitedRoles" validate:"dive,oneof=super_admin tenant_admin coach player"`
	StartTime    time.Time  `json:"startTime" validate:"required"`
	StopTime     *time.Time `json:"stopTime"`
}

type eventResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"startTime"`
	StopTime  *string `json:"stopTime"`
}

type gameResponse struct {
	ID           string        `json:"id"`
	TeamID       string        `json:"teamId"`
	Opponent     string        `json:"opponent"`
	Location     string        `json:"location"`
	LocationKind string        `json:"locationKind"`
	InvitedRoles []string      `json:"invitedRoles"`
	Event        eventResponse `json:"event"`
	CreatedAt    string        `json:"createdAt"`
}

type createdGameResponse struct {
	gameResponse
	Invited int `json:"invited"`
}

// GameHandler handles game scheduling endpoints.
type GameHandler struct {
	games Games
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(games Games) *GameHandler {
	return &GameHandler{games: games}
}

// Create handles POST /api/games/create. Every member of the team's tenant
// holding one of the invited roles gets a pending invite.
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req createGameRequest
	if !decode(w, r, &req) {
		return
	}

	teamID, _ := uuid.Parse(req.TeamID) // already validated
	roles := make([]rbac.Role, 0, len(req.InvitedRoles))
	for _, s := range req.InvitedRoles {
		roles = append(roles, rbac.Role(s))
	}

	created, err := h.games.Create(r.Context(), middleware.GetIdentity(r.Context()), game.CreateParams{
		TeamID:       teamID,
		Opponent:     req.Opponent,
		Location:     req.Location,
		LocationKind: game.LocationKind(req.LocationKind),
		InvitedRoles: roles,
		StartTime:    req.StartTime,
		StopTime:     req.StopTime,
	})
	if err != nil {
		respondError(w, r, err, "create game")
		return
	}

	response.Success(w, http.StatusCreated, createdGameResponse{
		gameResponse: toGameResponse(*created.Game),
		Invited:      created.Invited,
	}, requestID)
}

// ListForTeam handles GET /api/games/list-for-team/{teamID}.
func (h *GameHandler) ListForTeam(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := uuidParam(w, r, "teamID")
	if !ok {
		return
	}

	games, err := h.games.ListForTeam(r.Context(), middleware.GetIdentity(r.Context()), teamID)
	if err != nil {
		respondError(w, r, err, "list games")
		return
	}

	items := make([]gameResponse, 0, len(games))
	for _, g := range games {
		items = append(items, toGameResponse(g))
	}
	response.SuccessList(w, items, len(items), requestID)
}

// Delete handles DELETE /api/games/delete-by-id/{id}.
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.games.Delete(r.Context(), middleware.GetIdentity(r.Context()), gameID); err != nil {
		respondError(w, r, err, "delete game")
		return
	}

	response.NoContent(w)
}

func toGameResponse(g game.Game) gameResponse {
	return gameResponse{
		ID:           g.ID.String(),
		TeamID:       g.TeamID.String(),
		Opponent:     g.Opponent,
		Location:     g.Location,
		LocationKind: string(g.LocationKind),
		InvitedRoles: rbac.Strings(g.InvitedRoles),
		Event: eventResponse{
			ID:        g.Event.ID.String(),
			StartTime: formatTime(g.Event.StartTime),
			StopTime:  formatTimePtr(g.Event.StopTime),
		},
		CreatedAt: formatTime(g.CreatedAt),
	}
}
