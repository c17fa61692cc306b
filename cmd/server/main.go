package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	specpkg "github.com/clubhouse/clubhouse/api"
	"github.com/clubhouse/clubhouse/internal/api"
	"github.com/clubhouse/clubhouse/internal/auth"
	"github.com/clubhouse/clubhouse/internal/config"
	"github.com/clubhouse/clubhouse/internal/database"
	"github.com/clubhouse/clubhouse/internal/game"
	"github.com/clubhouse/clubhouse/internal/idalloc"
	"github.com/clubhouse/clubhouse/internal/session"
	"github.com/clubhouse/clubhouse/internal/sweeper"
	"github.com/clubhouse/clubhouse/internal/team"
	"github.com/clubhouse/clubhouse/internal/tenant"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	pool := db.Pool()
	sessions := session.NewStore(pool)
	tenantRepo := tenant.NewRepository(pool, idalloc.New())
	authService := auth.NewService(auth.NewRepository(pool, tenantRepo, sessions), sessions, cfg.SessionTTL, cfg.BcryptCost)

	if cfg.Bootstrap() {
		created, err := authService.Bootstrap(ctx, cfg.InitialTenant, cfg.InitialUser, cfg.InitialPassword)
		if err != nil {
			slog.Error("failed to bootstrap initial tenant", "error", err)
			os.Exit(1)
		}
		if created {
			slog.Info("bootstrapped initial tenant", "tenant", cfg.InitialTenant, "username", cfg.InitialUser)
		}
	}

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		if err := sweeper.New(sessions, cfg.SweepInterval).Start(ctx); err != nil {
			slog.Error("session sweeper stopped", "error", err)
		}
	}()

	router := api.NewRouter(api.RouterDeps{
		DBPinger:       db,
		Version:        cfg.Version,
		OpenAPISpec:    specpkg.OpenAPISpec,
		AuthService:    authService,
		TenantService:  tenant.NewService(tenantRepo),
		TeamService:    team.NewService(team.NewRepository(pool)),
		GameService:    game.NewService(game.NewRepository(pool)),
		CookieSecure:   cfg.CookieSecure,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting clubhouse server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		stop()
		<-sweepDone
		db.Close()
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	<-sweepDone

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
