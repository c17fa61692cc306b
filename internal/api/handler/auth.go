package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/auth"
)

// Accounts is the part of auth.Service the auth endpoints need.
type Accounts interface {
	Login(ctx context.Context, username, password string) (*auth.Account, error)
	SignUpWithNewTenant(ctx context.Context, username, password, tenantTitle string) (*auth.Account, error)
	SignUpViaInvite(ctx context.Context, inviteID, username, password string) (*auth.Account, error)
	Logout(ctx context.Context, sessionID string) error
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type signUpWithNewTenantRequest struct {
	Username    string `json:"username" validate:"required,notblank,max=64"`
	Password    string `json:"password" validate:"required,max=72"`
	TenantTitle string `json:"tenantTitle" validate:"required,notblank,max=200"`
}

type accountResponse struct {
	ID                     string `json:"id"`
	TenantID               string `json:"tenantId"`
	RoleAssignmentRequired bool   `json:"roleAssignmentRequired,omitempty"`
}

// AuthHandler handles log-in, sign-up and log-out.
type AuthHandler struct {
	accounts     Accounts
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts Accounts, cookieSecure bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookieSecure: cookieSecure}
}

// LogIn handles POST /api/log-in.
func (h *AuthHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	acct, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Username or password is incorrect", requestID)
			return
		}
		respondError(w, r, err, "log in")
		return
	}

	h.started(w, acct)
	response.Success(w, http.StatusOK, toAccountResponse(acct, false), requestID)
}

// SignUpWithNewTenant handles POST /api/sign-up-with-new-tenant.
func (h *AuthHandler) SignUpWithNewTenant(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req signUpWithNewTenantRequest
	if !decode(w, r, &req) {
		return
	}

	acct, err := h.accounts.SignUpWithNewTenant(r.Context(), req.Username, req.Password, req.TenantTitle)
	if err != nil {
		respondError(w, r, err, "sign up")
		return
	}

	h.started(w, acct)
	response.Success(w, http.StatusCreated, toAccountResponse(acct, false), requestID)
}

// SignUpViaInvite handles POST /api/sign-up-via-invite/{inviteID}. The new
// user holds no role until a tenant admin assigns one.
func (h *AuthHandler) SignUpViaInvite(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	inviteID := chi.URLParam(r, "inviteID")

	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	acct, err := h.accounts.SignUpViaInvite(r.Context(), inviteID, req.Username, req.Password)
	if err != nil {
		respondError(w, r, err, "sign up")
		return
	}

	h.started(w, acct)
	response.Success(w, http.StatusCreated, toAccountResponse(acct, true), requestID)
}

// LogOut handles POST /api/log-out. The cookie is cleared even when the
// session could not be destroyed.
func (h *AuthHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	middleware.ClearSessionCookie(w)

	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session cookie is required", requestID)
		return
	}

	if err := h.accounts.Logout(r.Context(), identity.SessionID); err != nil {
		slog.Error("failed to log out", "error", err, "requestId", requestID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out", requestID)
		return
	}

	response.NoContent(w)
}

func (h *AuthHandler) started(w http.ResponseWriter, acct *auth.Account) {
	middleware.SetSessionCookie(w, acct.Session.ID, acct.Session.ExpiresAt, h.cookieSecure)
}

func toAccountResponse(acct *auth.Account, roleAssignmentRequired bool) accountResponse {
	return accountResponse{
		ID:                     acct.UserID.String(),
		TenantID:               acct.TenantID,
		RoleAssignmentRequired: roleAssignmentRequired,
	}
}
