package ratelimiter

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState

	staleAfter    time.Duration
	pruneInterval time.Duration
	lastPrune     time.Time
	now           func() time.Time
	logger        *slog.Logger

	created atomic.Int64
	removed atomic.Int64
}

// MemoryStoreStats reports bucket counters.
type MemoryStoreStats struct {
	BucketsCreated int64
	BucketsRemoved int64
	ActiveBuckets  int
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithStaleAfter sets how long a bucket may sit unused before it is pruned. 0 disables pruning.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d >= 0 {
			ms.staleAfter = d
		}
	}
}

// WithPruneInterval sets the minimum time between prune passes.
func WithPruneInterval(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d >= 0 {
			ms.pruneInterval = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// NewMemoryStore returns an empty store. Idle buckets are pruned during ConsumeTokens.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:       make(map[string]*bucketState),
		staleAfter:    time.Hour,
		pruneInterval: 5 * time.Minute,
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ms)
	}
	ms.lastPrune = ms.now()
	return ms
}

func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	ms.pruneLocked(ctx, now)

	b, ok := ms.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, lastRefill: now}
		ms.buckets[key] = b
		ms.created.Add(1)
	}

	b.tokens, b.lastRefill = cfg.refill(b.tokens, b.lastRefill, now)
	b.lastAccess = now

	remaining := b.tokens - tokens
	if remaining >= 0 {
		b.tokens = remaining
	}
	return remaining, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.buckets, key)
	ms.mu.Unlock()
	return nil
}

// Prune removes buckets idle for longer than the stale threshold and returns how many were removed.
func (ms *MemoryStore) Prune(ctx context.Context) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.removeStaleLocked(ctx, ms.now())
}

func (ms *MemoryStore) pruneLocked(ctx context.Context, now time.Time) {
	if ms.staleAfter <= 0 || now.Sub(ms.lastPrune) < ms.pruneInterval {
		return
	}
	ms.removeStaleLocked(ctx, now)
}

func (ms *MemoryStore) removeStaleLocked(ctx context.Context, now time.Time) int {
	ms.lastPrune = now
	if ms.staleAfter <= 0 {
		return 0
	}

	removed := 0
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.staleAfter {
			delete(ms.buckets, key)
			removed++
		}
	}
	if removed > 0 {
		ms.removed.Add(int64(removed))
		ms.logger.DebugContext(ctx, "pruned idle rate limit buckets", slog.Int("removed", removed))
	}
	return removed
}

// Stats returns bucket counters.
func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.Lock()
	active := len(ms.buckets)
	ms.mu.Unlock()

	return MemoryStoreStats{
		BucketsCreated: ms.created.Load(),
		BucketsRemoved: ms.removed.Load(),
		ActiveBuckets:  active,
	}
}
