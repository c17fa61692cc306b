// Package sweeper periodically removes expired sessions.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ExpiredDeleter deletes expired rows and reports how many were removed.
type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Sweeper runs DeleteExpired on a fixed interval.
type Sweeper struct {
	store    ExpiredDeleter
	interval time.Duration
}

// New creates a new Sweeper.
func New(store ExpiredDeleter, interval time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval}
}

// Start schedules the sweep job and blocks until ctx is cancelled. The first
// sweep runs immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Sweep(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("scheduling session sweep: %w", err)
	}

	slog.Info("session sweeper started", "interval", s.interval.String())
	sched.Start()

	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		slog.Warn("session sweeper: scheduler shutdown", "error", err)
	}
	slog.Info("session sweeper stopped")
	return nil
}

// Sweep deletes expired sessions once. Failures are logged and retried on
// the next tick.
func (s *Sweeper) Sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	n, err := s.store.DeleteExpired(ctx)
	if err != nil {
		slog.Error("session sweeper: failed to delete expired sessions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("session sweeper: deleted expired sessions", "count", n)
	}
}
