package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/parsekit/pkg/ratelimiter"
)

func TestMemoryStore_ConsumeTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{
		Capacity:       10,
		RefillRate:     2,
		RefillInterval: 100 * time.Millisecond,
	}

	t.Run("new bucket starts full", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		remaining, resetAt, err := store.ConsumeTokens(ctx, "new-key", 3, cfg)
		require.NoError(t, err)
		assert.Equal(t, 7, remaining)
		assert.NotZero(t, resetAt)
	})

	t.Run("shortfall leaves balance untouched", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		remaining, _, err := store.ConsumeTokens(ctx, "k", 8, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)

		remaining, _, err = store.ConsumeTokens(ctx, "k", 5, cfg)
		require.NoError(t, err)
		assert.Equal(t, -3, remaining)

		remaining, _, err = store.ConsumeTokens(ctx, "k", 0, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
	})

	t.Run("partial refill keeps interval phase", func(t *testing.T) {
		t.Parallel()

		clock := newFakeClock()
		store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now))

		_, _, err := store.ConsumeTokens(ctx, "k", 10, cfg)
		require.NoError(t, err)

		clock.Advance(250 * time.Millisecond)
		remaining, resetAt, err := store.ConsumeTokens(ctx, "k", 0, cfg)
		require.NoError(t, err)
		assert.Equal(t, 4, remaining)
		assert.Equal(t, clock.Now().Add(50*time.Millisecond), resetAt)
	})
}

func TestMemoryStore_Prune(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithClock(clock.Now),
		ratelimiter.WithStaleAfter(time.Minute),
		ratelimiter.WithPruneInterval(time.Second),
	)
	cfg := ratelimiter.DefaultConfig()

	_, _, err := store.ConsumeTokens(ctx, "old", 1, cfg)
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, _, err = store.ConsumeTokens(ctx, "fresh", 1, cfg)
	require.NoError(t, err)

	stats := store.Stats()
	assert.Equal(t, int64(2), stats.BucketsCreated)
	assert.Equal(t, int64(1), stats.BucketsRemoved, "lazy prune runs during consume")
	assert.Equal(t, 1, stats.ActiveBuckets)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, store.Prune(ctx))
	assert.Zero(t, store.Stats().ActiveBuckets)
}

func TestMemoryStore_PruneDisabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now), ratelimiter.WithStaleAfter(0))

	_, _, err := store.ConsumeTokens(ctx, "k", 1, ratelimiter.DefaultConfig())
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)

	assert.Zero(t, store.Prune(ctx))
	assert.Equal(t, 1, store.Stats().ActiveBuckets)
}
