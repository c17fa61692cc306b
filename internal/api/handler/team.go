package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/team"
)

// Teams is the part of team.Service the team endpoints need.
type Teams interface {
	Create(ctx context.Context, id *rbac.Identity, name, requestedSlug string) (*team.Team, error)
	Get(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) (*team.Team, error)
	List(ctx context.Context, id *rbac.Identity) ([]team.Team, error)
	Update(ctx context.Context, id *rbac.Identity, teamID uuid.UUID, name, requestedSlug string) (*team.Team, error)
	Delete(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) error
}

type teamRequest struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

type teamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TeamHandler handles team CRUD endpoints.
type TeamHandler struct {
	teams Teams
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams Teams) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// Create handles POST /api/teams/create. An empty slug is derived from the name.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req teamRequest
	if !decode(w, r, &req) {
		return
	}

	t, err := h.teams.Create(r.Context(), middleware.GetIdentity(r.Context()), req.Name, req.Slug)
	if err != nil {
		respondError(w, r, err, "create team")
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(*t), requestID)
}

// List handles GET /api/teams/list.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teams, err := h.teams.List(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		respondError(w, r, err, "list teams")
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		items = append(items, toTeamResponse(t))
	}
	response.SuccessList(w, items, len(items), requestID)
}

// Get handles GET /api/teams/get/{id}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	t, err := h.teams.Get(r.Context(), middleware.GetIdentity(r.Context()), teamID)
	if err != nil {
		respondError(w, r, err, "get team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(*t), requestID)
}

// Update handles PUT /api/teams/update/{id}.
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req teamRequest
	if !decode(w, r, &req) {
		return
	}

	t, err := h.teams.Update(r.Context(), middleware.GetIdentity(r.Context()), teamID, req.Name, req.Slug)
	if err != nil {
		respondError(w, r, err, "update team")
		return
	}

	response.Success(w, http.StatusOK, toTeamResponse(*t), requestID)
}

// Delete handles DELETE /api/teams/delete-by-id/{id}.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	teamID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.teams.Delete(r.Context(), middleware.GetIdentity(r.Context()), teamID); err != nil {
		respondError(w, r, err, "delete team")
		return
	}

	response.NoContent(w)
}

func toTeamResponse(t team.Team) teamResponse {
	return teamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
}
