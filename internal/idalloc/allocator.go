// Package idalloc produces short random identifiers for rows whose primary key
// is chosen by the application rather than a sequence.
package idalloc

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/clubhouse/clubhouse/internal/database"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Defaults used for tenant ids.
const (
	DefaultLength      = 6
	DefaultMaxAttempts = 5
	DefaultBackoff     = 50 * time.Millisecond
)

// ErrExhaustedRetries is returned when every attempt collided with an existing id.
var ErrExhaustedRetries = errors.New("could not allocate a unique id")

// InsertFunc tries to persist a row under candidate and returns the stored id.
// A PostgreSQL unique violation marks the candidate as taken.
type InsertFunc func(ctx context.Context, candidate string) (string, error)

// Allocator generates random alphanumeric ids and retries on collision.
type Allocator struct {
	Length      int
	MaxAttempts int
	Backoff     time.Duration

	// Generate is overridable in tests; nil means RandomString.
	Generate func(n int) (string, error)
}

// New returns an Allocator with the default tenant id settings.
func New() *Allocator {
	return &Allocator{
		Length:      DefaultLength,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoff,
	}
}

// Allocate calls insert with fresh candidates until one is accepted, a
// non-collision error occurs, or MaxAttempts collisions have happened.
func (a *Allocator) Allocate(ctx context.Context, kind string, insert InsertFunc) (string, error) {
	gen := a.Generate
	if gen == nil {
		gen = RandomString
	}

	for attempt := 1; attempt <= a.MaxAttempts; attempt++ {
		candidate, err := gen(a.Length)
		if err != nil {
			return "", fmt.Errorf("generating %s id: %w", kind, err)
		}

		id, err := insert(ctx, candidate)
		if err == nil {
			return id, nil
		}
		if !database.IsUniqueViolation(err) {
			return "", err
		}

		slog.Debug("id collision", "kind", kind, "attempt", attempt)
		if attempt == a.MaxAttempts {
			break
		}
		if err := sleep(ctx, a.Backoff); err != nil {
			return "", err
		}
	}

	slog.Error("id allocation exhausted retries", "kind", kind, "attempts", a.MaxAttempts)
	return "", fmt.Errorf("%s: %w", kind, ErrExhaustedRetries)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RandomString returns n characters drawn uniformly from [0-9A-Za-z] using crypto/rand.
func RandomString(n int) (string, error) {
	alphabetLen := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}
