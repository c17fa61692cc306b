package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/game"
)

type respondRequest struct {
	InviteID string `json:"inviteId" validate:"required,uuid"`
	Response string `json:"response" validate:"required"`
}

type gameInviteResponse struct {
	ID        string `json:"id"`
	GameID    string `json:"gameId"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Response  string `json:"response"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// GameInviteHandler handles the invites players receive for games.
type GameInviteHandler struct {
	games Games
}

// NewGameInviteHandler creates a new GameInviteHandler.
func NewGameInviteHandler(games Games) *GameInviteHandler {
	return &GameInviteHandler{games: games}
}

// ListOwn handles GET /api/game-invites/list-own.
func (h *GameInviteHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	invites, err := h.games.ListOwnInvites(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "list invites")
		return
	}
	writeGameInvites(w, r, invites)
}

// ListToGame handles GET /api/game-invites/list-to-game/{gameID}.
func (h *GameInviteHandler) ListToGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := uuidParam(w, r, "gameID")
	if !ok {
		return
	}

	invites, err := h.games.ListInvitesToGame(r.Context(), middleware.GetIdentity(r.Context()), gameID)
	if err != nil {
		respondError(w, r, err, "list invites")
		return
	}
	writeGameInvites(w, r, invites)
}

// Respond handles POST /api/game-invites/respond. Only the invited user can
// answer, and pending is not an answer.
func (h *GameInviteHandler) Respond(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req respondRequest
	if !decode(w, r, &req) {
		return
	}

	inviteID, _ := uuid.Parse(req.InviteID) // already validated
	inv, err := h.games.AnswerInvite(r.Context(), middleware.GetIdentity(r.Context()), inviteID, req.Response)
	if err != nil {
		respondError(w, r, err, "answer invite")
		return
	}

	response.Success(w, http.StatusOK, toGameInviteResponse(*inv), requestID)
}

func writeGameInvites(w http.ResponseWriter, r *http.Request, invites []game.Invite) {
	items := make([]gameInviteResponse, 0, len(invites))
	for _, inv := range invites {
		items = append(items, toGameInviteResponse(inv))
	}
	response.SuccessList(w, items, len(items), middleware.GetRequestID(r.Context()))
}

func toGameInviteResponse(inv game.Invite) gameInviteResponse {
	return gameInviteResponse{
		ID:        inv.ID.String(),
		GameID:    inv.GameID.String(),
		UserID:    inv.UserID.String(),
		Username:  inv.Username,
		Response:  string(inv.Response),
		CreatedAt: formatTime(inv.CreatedAt),
		UpdatedAt: formatTime(inv.UpdatedAt),
	}
}
