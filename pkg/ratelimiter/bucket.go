package ratelimiter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Store persists bucket state.
type Store interface {
	// ConsumeTokens refills the bucket for key and takes tokens if enough are
	// available. remaining is the balance after the call; a negative value is
	// the shortfall of a denied request, in which case nothing was taken.
	ConsumeTokens(ctx context.Context, key string, tokens int, cfg Config) (remaining int, resetAt time.Time, err error)
	Reset(ctx context.Context, key string) error
}

// Result describes one bucket decision.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time

	rate     int
	interval time.Duration
}

// Allowed reports whether the tokens were granted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter estimates how long until the shortfall is refilled. Zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	wait := time.Until(r.ResetAt)
	if r.rate > 0 {
		extra := (-r.Remaining - 1) / r.rate
		wait += time.Duration(extra) * r.interval
	}
	return max(wait, 0)
}

// Bucket applies one Config to many keys.
type Bucket struct {
	store Store
	cfg   Config
}

// NewBucket validates cfg and returns a Bucket over store.
func NewBucket(store Store, cfg Config) (*Bucket, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Bucket{store: store, cfg: cfg}, nil
}

// Allow takes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (*Result, error) {
	return b.AllowN(ctx, key, 1)
}

// AllowN takes n tokens for key, or none if fewer are available.
func (b *Bucket) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}
	return b.consume(ctx, key, n)
}

// Status reports the bucket for key without taking tokens.
func (b *Bucket) Status(ctx context.Context, key string) (*Result, error) {
	return b.consume(ctx, key, 0)
}

// Reset refills the bucket for key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Reset(ctx, key)
}

// Wait blocks until one token for key is granted or ctx is done.
func (b *Bucket) Wait(ctx context.Context, key string) error {
	return b.WaitN(ctx, key, 1)
}

// WaitN blocks until n tokens for key are granted or ctx is done.
func (b *Bucket) WaitN(ctx context.Context, key string, n int) error {
	if n > b.cfg.Capacity {
		return fmt.Errorf("%w: %d tokens exceed capacity %d", ErrRateLimitExceeded, n, b.cfg.Capacity)
	}
	for {
		res, err := b.AllowN(ctx, key, n)
		if err != nil {
			return err
		}
		if res.Allowed() {
			return nil
		}

		timer := time.NewTimer(max(res.RetryAfter(), time.Millisecond))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (b *Bucket) consume(ctx context.Context, key string, n int) (*Result, error) {
	remaining, resetAt, err := b.store.ConsumeTokens(ctx, key, n, b.cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Limit:     b.cfg.Capacity,
		Remaining: remaining,
		ResetAt:   resetAt,
		rate:      b.cfg.RefillRate,
		interval:  b.cfg.RefillInterval,
	}, nil
}

// HostKey returns the lowercased host of rawURL, or rawURL itself when it does not parse.
func HostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.ToLower(u.Host)
}
