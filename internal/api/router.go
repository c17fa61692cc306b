package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/clubhouse/clubhouse/internal/api/handler"
	"github.com/clubhouse/clubhouse/internal/api/middleware"
	"github.com/clubhouse/clubhouse/internal/api/response"
	"github.com/clubhouse/clubhouse/internal/rbac"
)

// AuthService is everything the router needs from auth.Service.
type AuthService interface {
	middleware.Authenticator
	handler.Accounts
	handler.Users
	handler.Roles
}

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger       handler.DBPinger
	Version        string
	OpenAPISpec    []byte
	AuthService    AuthService
	TenantService  handler.Tenants
	TeamService    handler.Teams
	GameService    handler.Games
	CookieSecure   bool
	RequestTimeout time.Duration
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	if deps.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(deps.RequestTimeout))
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.AuthService == nil {
		return r
	}

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.CookieSecure)
	userHandler := handler.NewUserHandler(deps.AuthService)
	roleHandler := handler.NewRoleHandler(deps.AuthService)
	tenantAdmin := middleware.RequireRoles(rbac.AtLeast(rbac.RoleTenantAdmin)...)

	r.Route("/api", func(r chi.Router) {
		r.Post("/log-in", authHandler.LogIn)
		r.Post("/sign-up-with-new-tenant", authHandler.SignUpWithNewTenant)
		r.Post("/sign-up-via-invite/{inviteID}", authHandler.SignUpViaInvite)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.AuthService))

			r.Post("/log-out", authHandler.LogOut)

			r.With(tenantAdmin).Route("/users", func(r chi.Router) {
				r.Get("/list", userHandler.List)
				r.Delete("/delete-by-id/{id}", userHandler.Delete)
			})

			r.Route("/roles", func(r chi.Router) {
				r.Get("/list", roleHandler.List)
				r.Get("/list-own", roleHandler.ListOwn)
				r.Post("/assign", roleHandler.Assign)
				r.Delete("/unassign", roleHandler.Unassign)
			})

			if deps.TenantService != nil {
				tenantHandler := handler.NewTenantHandler(deps.TenantService)
				r.With(tenantAdmin).Route("/invites-to-tenant", func(r chi.Router) {
					r.Post("/create", tenantHandler.CreateInvite)
					r.Get("/list", tenantHandler.ListInvites)
					r.Delete("/delete-by-id/{id}", tenantHandler.DeleteInvite)
				})
				r.With(tenantAdmin).Delete("/tenants/delete-own", tenantHandler.DeleteOwn)
			}

			if deps.TeamService != nil {
				teamHandler := handler.NewTeamHandler(deps.TeamService)
				r.Route("/teams", func(r chi.Router) {
					r.Post("/create", teamHandler.Create)
					r.Get("/list", teamHandler.List)
					r.Get("/get/{id}", teamHandler.Get)
					r.Put("/update/{id}", teamHandler.Update)
					r.Delete("/delete-by-id/{id}", teamHandler.Delete)
				})
			}

			if deps.GameService != nil {
				gameHandler := handler.NewGameHandler(deps.GameService)
				inviteHandler := handler.NewGameInviteHandler(deps.GameService)
				r.Route("/games", func(r chi.Router) {
					r.Post("/create", gameHandler.Create)
					r.Get("/list-for-team/{teamID}", gameHandler.ListForTeam)
					r.Delete("/delete-by-id/{id}", gameHandler.Delete)
				})
				r.Route("/game-invites", func(r chi.Router) {
					r.Get("/list-own", inviteHandler.ListOwn)
					r.Get("/list-to-game/{gameID}", inviteHandler.ListToGame)
					r.Post("/respond", inviteHandler.Respond)
				})
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Route not found", middleware.GetRequestID(r.Context()))
	})

	return r
}
