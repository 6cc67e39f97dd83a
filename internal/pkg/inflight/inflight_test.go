package inflight

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	march = "2024-03-01|2024-03-31"
	april = "2024-04-01|2024-04-30"
)

func TestSwitchCancelsOlderFetches(t *testing.T) {
	reg := NewRegistry()

	oldCtx, oldDone := reg.Begin(context.Background(), "s1", march)
	defer oldDone()
	otherCtx, otherDone := reg.Begin(context.Background(), "s2", march)
	defer otherDone()

	assert.Equal(t, 1, reg.Switch("s1", april))

	require.Error(t, oldCtx.Err())
	assert.ErrorIs(t, oldCtx.Err(), context.Canceled)
	assert.NoError(t, otherCtx.Err(), "other sessions are untouched")
	assert.Zero(t, reg.Pending("s1"))
}

func TestSwitchKeepsFetchesForNewKey(t *testing.T) {
	reg := NewRegistry()
	ctx, done := reg.Begin(context.Background(), "s1", april)
	defer done()

	assert.Zero(t, reg.Switch("s1", april))
	assert.NoError(t, ctx.Err())
	assert.Equal(t, 1, reg.Pending("s1"))
}

func TestStale(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Stale("s1", march), "unknown session is never stale")

	_, done := reg.Begin(context.Background(), "s1", march)
	done()
	assert.False(t, reg.Stale("s1", march))

	reg.Switch("s1", april)
	assert.True(t, reg.Stale("s1", march))
	assert.False(t, reg.Stale("s1", april))
}

func TestDoneIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	ctx, done := reg.Begin(context.Background(), "s1", march)
	done()
	done()
	assert.Error(t, ctx.Err())
	assert.Zero(t, reg.Pending("s1"))
}

func TestForget(t *testing.T) {
	reg := NewRegistry()
	ctx, _ := reg.Begin(context.Background(), "s1", march)
	reg.Forget("s1")
	assert.Error(t, ctx.Err())
	assert.False(t, reg.Stale("s1", april))
}

func TestConcurrentUse(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, done := reg.Begin(context.Background(), "s1", march)
			done()
		}()
		go func() {
			defer wg.Done()
			reg.Switch("s1", april)
		}()
	}
	wg.Wait()
	assert.Zero(t, reg.Pending("s1"))
}

func TestIdleSessionsArePruned(t *testing.T) {
	reg := NewRegistry()
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	reg.Switch("expired", march)
	_, busyDone := reg.Begin(context.Background(), "busy", march)
	reg.Switch("recent", march)
	assert.Equal(t, 3, reg.Sessions())

	clock = clock.Add(IdleTTL - time.Hour)
	reg.Switch("recent", april)

	clock = clock.Add(2 * time.Hour)
	reg.Switch("active", march)

	assert.Equal(t, 3, reg.Sessions())
	assert.False(t, reg.Stale("expired", april), "pruned sessions are never stale")
	assert.True(t, reg.Stale("recent", march))
	assert.Equal(t, 1, reg.Pending("busy"), "sessions with pending fetches are kept")

	busyDone()
	clock = clock.Add(sweepInterval)
	reg.Switch("active", april)
	assert.Equal(t, 2, reg.Sessions())
}
