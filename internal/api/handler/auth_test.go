package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clubhouse/clubhouse/internal/api/handler"
	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/auth"
	"github.com/clubhouse/clubhouse/internal/session"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

func newAccount() *auth.Account {
	return &auth.Account{
		UserID:   uuid.New(),
		TenantID: "Ab12Cd",
		Session: &session.Session{
			ID:        "SeSsIoN123456789",
			ExpiresAt: time.Now().Add(24 * time.Hour),
		},
	}
}

func TestAuthHandler_LogIn_Success(t *testing.T) {
	acct := newAccount()
	accounts := &mockAccounts{
		loginFn: func(_ context.Context, username, password string) (*auth.Account, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "pw", password)
			return acct, nil
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.LogIn(w, newRequest(t, http.MethodPost, "/api/log-in", map[string]string{"username": "alice", "password": "pw"}, nil, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, acct.UserID.String(), data["id"])
	assert.Equal(t, "Ab12Cd", data["tenantId"])

	cookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(cookie, "session_id=SeSsIoN123456789"))
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "SameSite=Strict")
}

func TestAuthHandler_LogIn_WrongPasswordSetsNoCookie(t *testing.T) {
	accounts := &mockAccounts{
		loginFn: func(_ context.Context, _, _ string) (*auth.Account, error) {
			return nil, auth.ErrInvalidCredentials
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.LogIn(w, newRequest(t, http.MethodPost, "/api/log-in", map[string]string{"username": "alice", "password": "nope"}, nil, nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestAuthHandler_LogIn_StoreErrorIs500(t *testing.T) {
	accounts := &mockAccounts{
		loginFn: func(_ context.Context, _, _ string) (*auth.Account, error) {
			return nil, errors.New("connection refused")
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.LogIn(w, newRequest(t, http.MethodPost, "/api/log-in", map[string]string{"username": "alice", "password": "pw"}, nil, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestAuthHandler_LogIn_ValidationErrors(t *testing.T) {
	h := handler.NewAuthHandler(&mockAccounts{}, true)

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{"malformed json", "{", "INVALID_JSON"},
		{"missing password", map[string]string{"username": "alice"}, "VALIDATION_ERROR"},
		{"blank username", map[string]string{"username": "   ", "password": "pw"}, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.LogIn(w, newRequest(t, http.MethodPost, "/api/log-in", tt.body, nil, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestAuthHandler_SignUpWithNewTenant(t *testing.T) {
	acct := newAccount()
	accounts := &mockAccounts{
		signUpWithNewTenantFn: func(_ context.Context, username, password, title string) (*auth.Account, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "pw", password)
			assert.Equal(t, "ClubX", title)
			return acct, nil
		},
	}
	h := handler.NewAuthHandler(accounts, false)

	w := httptest.NewRecorder()
	h.SignUpWithNewTenant(w, newRequest(t, http.MethodPost, "/api/sign-up-with-new-tenant",
		map[string]string{"username": "alice", "password": "pw", "tenantTitle": "ClubX"}, nil, nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, acct.UserID.String(), data["id"])
	assert.NotContains(t, data, "roleAssignmentRequired")
	assert.True(t, strings.HasPrefix(w.Header().Get("Set-Cookie"), "session_id=SeSsIoN123456789"))
}

func TestAuthHandler_SignUpWithNewTenant_UsernameTaken(t *testing.T) {
	accounts := &mockAccounts{
		signUpWithNewTenantFn: func(_ context.Context, _, _, _ string) (*auth.Account, error) {
			return nil, auth.ErrUsernameTaken
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.SignUpWithNewTenant(w, newRequest(t, http.MethodPost, "/api/sign-up-with-new-tenant",
		map[string]string{"username": "alice", "password": "pw", "tenantTitle": "ClubX"}, nil, nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "USERNAME_TAKEN", errorCode(t, w))
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestAuthHandler_SignUpViaInvite(t *testing.T) {
	acct := newAccount()
	accounts := &mockAccounts{
		signUpViaInviteFn: func(_ context.Context, inviteID, username, _ string) (*auth.Account, error) {
			assert.Equal(t, "InViTe1234567890", inviteID)
			assert.Equal(t, "bob", username)
			return acct, nil
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.SignUpViaInvite(w, newRequest(t, http.MethodPost, "/api/sign-up-via-invite/InViTe1234567890",
		map[string]string{"username": "bob", "password": "pw"}, nil, map[string]string{"inviteID": "InViTe1234567890"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["roleAssignmentRequired"])
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestAuthHandler_SignUpViaInvite_UnknownInvite(t *testing.T) {
	accounts := &mockAccounts{
		signUpViaInviteFn: func(_ context.Context, _, _, _ string) (*auth.Account, error) {
			return nil, tenant.ErrInviteNotFound
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.SignUpViaInvite(w, newRequest(t, http.MethodPost, "/api/sign-up-via-invite/nope",
		map[string]string{"username": "bob", "password": "pw"}, nil, map[string]string{"inviteID": "nope"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestAuthHandler_LogOut(t *testing.T) {
	var destroyed string
	accounts := &mockAccounts{
		logoutFn: func(_ context.Context, sessionID string) error {
			destroyed = sessionID
			return nil
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.LogOut(w, newRequest(t, http.MethodPost, "/api/log-out", nil, player, nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, player.SessionID, destroyed)
	assert.Equal(t, middleware.ExpiredSessionCookie, w.Header().Get("Set-Cookie"))
}

func TestAuthHandler_LogOut_ErrorStillClearsCookie(t *testing.T) {
	accounts := &mockAccounts{
		logoutFn: func(_ context.Context, _ string) error {
			return errors.New("connection refused")
		},
	}
	h := handler.NewAuthHandler(accounts, true)

	w := httptest.NewRecorder()
	h.LogOut(w, newRequest(t, http.MethodPost, "/api/log-out", nil, player, nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, middleware.ExpiredSessionCookie, w.Header().Get("Set-Cookie"))
}
