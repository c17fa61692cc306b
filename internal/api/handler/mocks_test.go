package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/auth"
	"github.com/clubhouse/clubhouse/internal/game"
	"github.com/clubhouse/clubhouse/internal/rbac"
	"github.com/clubhouse/clubhouse/internal/team"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

type mockAccounts struct {
	loginFn               func(ctx context.Context, username, password string) (*auth.Account, error)
	signUpWithNewTenantFn func(ctx context.Context, username, password, tenantTitle string) (*auth.Account, error)
	signUpViaInviteFn     func(ctx context.Context, inviteID, username, password string) (*auth.Account, error)
	logoutFn              func(ctx context.Context, sessionID string) error
}

func (m *mockAccounts) Login(ctx context.Context, username, password string) (*auth.Account, error) {
	return m.loginFn(ctx, username, password)
}

func (m *mockAccounts) SignUpWithNewTenant(ctx context.Context, username, password, tenantTitle string) (*auth.Account, error) {
	return m.signUpWithNewTenantFn(ctx, username, password, tenantTitle)
}

func (m *mockAccounts) SignUpViaInvite(ctx context.Context, inviteID, username, password string) (*auth.Account, error) {
	return m.signUpViaInviteFn(ctx, inviteID, username, password)
}

func (m *mockAccounts) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFn(ctx, sessionID)
}

type mockUsers struct {
	listUsersFn  func(ctx context.Context, id *rbac.Identity) ([]auth.User, error)
	deleteUserFn func(ctx context.Context, id *rbac.Identity, userID uuid.UUID) error
}

func (m *mockUsers) ListUsers(ctx context.Context, id *rbac.Identity) ([]auth.User, error) {
	return m.listUsersFn(ctx, id)
}

func (m *mockUsers) DeleteUser(ctx context.Context, id *rbac.Identity, userID uuid.UUID) error {
	return m.deleteUserFn(ctx, id, userID)
}

type mockRoles struct {
	listFn     func(ctx context.Context, id *rbac.Identity) ([]auth.RoleAssignment, error)
	listOwnFn  func(ctx context.Context, id *rbac.Identity) ([]auth.RoleAssignment, error)
	assignFn   func(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) (*auth.RoleAssignment, error)
	unassignFn func(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) error
}

func (m *mockRoles) ListRoleAssignments(ctx context.Context, id *rbac.Identity) ([]auth.RoleAssignment, error) {
	return m.listFn(ctx, id)
}

func (m *mockRoles) ListOwnRoles(ctx context.Context, id *rbac.Identity) ([]auth.RoleAssignment, error) {
	return m.listOwnFn(ctx, id)
}

func (m *mockRoles) AssignRole(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) (*auth.RoleAssignment, error) {
	return m.assignFn(ctx, id, userID, role)
}

func (m *mockRoles) UnassignRole(ctx context.Context, id *rbac.Identity, userID uuid.UUID, role rbac.Role) error {
	return m.unassignFn(ctx, id, userID, role)
}

type mockTenants struct {
	createInviteFn func(ctx context.Context, id *rbac.Identity) (*tenant.Invite, error)
	listInvitesFn  func(ctx context.Context, id *rbac.Identity) ([]tenant.Invite, error)
	deleteInviteFn func(ctx context.Context, id *rbac.Identity, inviteID string) error
	deleteOwnFn    func(ctx context.Context, id *rbac.Identity) error
}

func (m *mockTenants) CreateInvite(ctx context.Context, id *rbac.Identity) (*tenant.Invite, error) {
	return m.createInviteFn(ctx, id)
}

func (m *mockTenants) ListInvites(ctx context.Context, id *rbac.Identity) ([]tenant.Invite, error) {
	return m.listInvitesFn(ctx, id)
}

func (m *mockTenants) DeleteInvite(ctx context.Context, id *rbac.Identity, inviteID string) error {
	return m.deleteInviteFn(ctx, id, inviteID)
}

func (m *mockTenants) DeleteOwn(ctx context.Context, id *rbac.Identity) error {
	return m.deleteOwnFn(ctx, id)
}

type mockTeams struct {
	createFn func(ctx context.Context, id *rbac.Identity, name, requestedSlug string) (*team.Team, error)
	getFn    func(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) (*team.Team, error)
	listFn   func(ctx context.Context, id *rbac.Identity) ([]team.Team, error)
	updateFn func(ctx context.Context, id *rbac.Identity, teamID uuid.UUID, name, requestedSlug string) (*team.Team, error)
	deleteFn func(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) error
}

func (m *mockTeams) Create(ctx context.Context, id *rbac.Identity, name, requestedSlug string) (*team.Team, error) {
	return m.createFn(ctx, id, name, requestedSlug)
}

func (m *mockTeams) Get(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) (*team.Team, error) {
	return m.getFn(ctx, id, teamID)
}

func (m *mockTeams) List(ctx context.Context, id *rbac.Identity) ([]team.Team, error) {
	return m.listFn(ctx, id)
}

func (m *mockTeams) Update(ctx context.Context, id *rbac.Identity, teamID uuid.UUID, name, requestedSlug string) (*team.Team, error) {
	return m.updateFn(ctx, id, teamID, name, requestedSlug)
}

func (m *mockTeams) Delete(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) error {
	return m.deleteFn(ctx, id, teamID)
}

type mockGames struct {
	createFn            func(ctx context.Context, id *rbac.Identity, p game.CreateParams) (*game.Created, error)
	deleteFn            func(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) error
	listForTeamFn       func(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) ([]game.Game, error)
	listOwnInvitesFn    func(ctx context.Context, id *rbac.Identity) ([]game.Invite, error)
	listInvitesToGameFn func(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) ([]game.Invite, error)
	answerInviteFn      func(ctx context.Context, id *rbac.Identity, inviteID uuid.UUID, response string) (*game.Invite, error)
}

func (m *mockGames) Create(ctx context.Context, id *rbac.Identity, p game.CreateParams) (*game.Created, error) {
	return m.createFn(ctx, id, p)
}

func (m *mockGames) Delete(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) error {
	return m.deleteFn(ctx, id, gameID)
}

func (m *mockGames) ListForTeam(ctx context.Context, id *rbac.Identity, teamID uuid.UUID) ([]game.Game, error) {
	return m.listForTeamFn(ctx, id, teamID)
}

func (m *mockGames) ListOwnInvites(ctx context.Context, id *rbac.Identity) ([]game.Invite, error) {
	return m.listOwnInvitesFn(ctx, id)
}

func (m *mockGames) ListInvitesToGame(ctx context.Context, id *rbac.Identity, gameID uuid.UUID) ([]game.Invite, error) {
	return m.listInvitesToGameFn(ctx, id, gameID)
}

func (m *mockGames) AnswerInvite(ctx context.Context, id *rbac.Identity, inviteID uuid.UUID, response string) (*game.Invite, error) {
	return m.answerInviteFn(ctx, id, inviteID, response)
}

// --- helpers ---

var (
	tenantAdmin = &rbac.Identity{UserID: uuid.New(), SessionID: "AAAAAAAAAAAAAAAA", TenantID: "Ab12Cd", Roles: []rbac.Role{rbac.RoleTenantAdmin}}
	coach       = &rbac.Identity{UserID: uuid.New(), SessionID: "BBBBBBBBBBBBBBBB", TenantID: "Ab12Cd", Roles: []rbac.Role{rbac.RoleCoach}}
	player      = &rbac.Identity{UserID: uuid.New(), SessionID: "CCCCCCCCCCCCCCCC", TenantID: "Ab12Cd", Roles: []rbac.Role{rbac.RolePlayer}}
)

// newRequest builds a request carrying identity and the given chi URL params.
func newRequest(t *testing.T, method, target string, body any, identity *rbac.Identity, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	ctx := req.Context()
	if identity != nil {
		ctx = middleware.WithIdentity(ctx, identity)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	apiErr, ok := decodeEnvelope(t, w)["error"].(map[string]any)
	require.True(t, ok, "response should carry an error object")
	return apiErr["code"].(string)
}
