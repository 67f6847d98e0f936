package scheduler

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter caps concurrent use of a resource shared by units, independently of
// the scheduler's own limit.
type Limiter struct {
	sem  *semaphore.Weighted
	size int
}

// NewLimiter returns a Limiter admitting n holders at once. n below 1 is treated as 1.
func NewLimiter(n int) *Limiter {
	n = max(n, 1)
	return &Limiter{sem: semaphore.NewWeighted(int64(n)), size: n}
}

// Size returns the number of concurrent holders allowed.
func (l *Limiter) Size() int {
	return l.size
}

// Do runs fn while holding a slot. It returns ctx.Err() if the context ends while waiting.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)
	return fn(ctx)
}

// Limit wraps unit so that it holds a slot of l while running.
func Limit[T any](l *Limiter, unit Unit[T]) Unit[T] {
	return func(ctx context.Context) (T, error) {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			var zero T
			return zero, err
		}
		defer l.sem.Release(1)
		return unit(ctx)
	}
}
