package sweeper_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhouse/clubhouse/internal/sweeper"
)

// --- Mock Store ---

type mockStore struct {
	calls atomic.Int32
	err   error
}

func (m *mockStore) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	return 3, m.err
}

func TestSweep_CallsStore(t *testing.T) {
	store := &mockStore{}
	sweeper.New(store, time.Hour).Sweep(context.Background())

	assert.Equal(t, int32(1), store.calls.Load())
}

func TestSweep_ErrorIsSwallowed(t *testing.T) {
	store := &mockStore{err: errors.New("connection refused")}

	assert.NotPanics(t, func() {
		sweeper.New(store, time.Hour).Sweep(context.Background())
	})
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestSweep_CancelledContextSkips(t *testing.T) {
	store := &mockStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sweeper.New(store, time.Hour).Sweep(ctx)
	assert.Equal(t, int32(0), store.calls.Load())
}

func TestStart_RunsRepeatedlyUntilCancelled(t *testing.T) {
	store := &mockStore{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sweeper.New(store, 20*time.Millisecond).Start(ctx)
	}()

	assert.Eventually(t, func() bool {
		return store.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}
