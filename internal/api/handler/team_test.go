package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clubhouse/clubhouse/internal/api/handler"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/team"
)

func TestTeamHandler_Create(t *testing.T) {
	teams := &mockTeams{
		createFn: func(_ context.Context, id *rbac.Identity, name, requestedSlug string) (*team.Team, error) {
			assert.Equal(t, tenantAdmin, id)
			assert.Equal(t, "First Team", name)
			assert.Empty(t, requestedSlug)
			now := time.Now()
			return &team.Team{ID: uuid.New(), TenantID: id.TenantID, Name: name, Slug: "first-team", CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	h := handler.NewTeamHandler(teams)

	w := httptest.NewRecorder()
	h.Create(w, newRequest(t, http.MethodPost, "/api/teams/create", map[string]string{"name": "First Team"}, tenantAdmin, nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, "First Team", data["name"])
	assert.Equal(t, "first-team", data["slug"])
}

func TestTeamHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"duplicate slug", team.ErrDuplicateTeamSlug, http.StatusConflict, "DUPLICATE_SLUG"},
		{"slug from symbols", team.ErrInvalidSlug, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"coach", rbac.Check(coach, rbac.AtLeast(rbac.RoleTenantAdmin)), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams := &mockTeams{
				createFn: func(_ context.Context, _ *rbac.Identity, _, _ string) (*team.Team, error) {
					return nil, tt.err
				},
			}
			h := handler.NewTeamHandler(teams)

			w := httptest.NewRecorder()
			h.Create(w, newRequest(t, http.MethodPost, "/api/teams/create", map[string]string{"name": "X"}, tenantAdmin, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestTeamHandler_Create_MissingName(t *testing.T) {
	h := handler.NewTeamHandler(&mockTeams{})

	w := httptest.NewRecorder()
	h.Create(w, newRequest(t, http.MethodPost, "/api/teams/create", map[string]string{"slug": "x"}, tenantAdmin, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestTeamHandler_Get_CrossTenantIsNotFound(t *testing.T) {
	teams := &mockTeams{
		getFn: func(_ context.Context, _ *rbac.Identity, _ uuid.UUID) (*team.Team, error) {
			return nil, team.ErrTeamNotFound
		},
	}
	h := handler.NewTeamHandler(teams)

	id := uuid.NewString()
	w := httptest.NewRecorder()
	h.Get(w, newRequest(t, http.MethodGet, "/api/teams/get/"+id, nil, player, map[string]string{"id": id}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_Update(t *testing.T) {
	teamID := uuid.New()
	teams := &mockTeams{
		updateFn: func(_ context.Context, _ *rbac.Identity, id uuid.UUID, name, requestedSlug string) (*team.Team, error) {
			assert.Equal(t, teamID, id)
			assert.Equal(t, "Reserves", name)
			assert.Equal(t, "res", requestedSlug)
			return &team.Team{ID: id, Name: name, Slug: requestedSlug}, nil
		},
	}
	h := handler.NewTeamHandler(teams)

	w := httptest.NewRecorder()
	h.Update(w, newRequest(t, http.MethodPut, "/api/teams/update/"+teamID.String(),
		map[string]string{"name": "Reserves", "slug": "res"}, tenantAdmin, map[string]string{"id": teamID.String()}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "res", decodeEnvelope(t, w)["data"].(map[string]any)["slug"])
}

func TestTeamHandler_ListAndDelete(t *testing.T) {
	teamID := uuid.New()
	deleted := uuid.Nil
	teams := &mockTeams{
		listFn: func(_ context.Context, _ *rbac.Identity) ([]team.Team, error) {
			return []team.Team{{ID: teamID, Name: "A", Slug: "a"}}, nil
		},
		deleteFn: func(_ context.Context, _ *rbac.Identity, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}
	h := handler.NewTeamHandler(teams)

	w := httptest.NewRecorder()
	h.List(w, newRequest(t, http.MethodGet, "/api/teams/list", nil, player, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeEnvelope(t, w)["data"], 1)

	w = httptest.NewRecorder()
	h.Delete(w, newRequest(t, http.MethodDelete, "/api/teams/delete-by-id/"+teamID.String(), nil, tenantAdmin,
		map[string]string{"id": teamID.String()}))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, teamID, deleted)
}
