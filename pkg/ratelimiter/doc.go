// Package ratelimiter throttles outgoing requests with a token bucket over a
// pluggable store.
//
// A Bucket holds Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request consumes tokens; a request that would overdraw
// the bucket is denied without consuming anything. Keys are arbitrary; the
// fetch and download clients key by host (see HostKey) so that every remote
// server gets its own budget.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     5,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	// Non-blocking check
//	res, err := limiter.Allow(ctx, ratelimiter.HostKey(u))
//	if err == nil && !res.Allowed() {
//		time.Sleep(res.RetryAfter())
//	}
//
//	// Or block until a token is available
//	if err := limiter.Wait(ctx, ratelimiter.HostKey(u)); err != nil {
//		return err
//	}
//
// # Stores
//
// MemoryStore keeps buckets in process and prunes idle ones lazily.
// RedisStore shares buckets across processes; the refill and consume step runs
// as a single Lua script so concurrent clients never overdraw a bucket.
package ratelimiter
