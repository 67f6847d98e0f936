package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/parsekit/core/ledger"
	"github.com/dmitrymomot/parsekit/core/logger"
	"github.com/dmitrymomot/parsekit/core/scheduler"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("retry: invalid policy")

// Policy controls how often and how far apart a unit is attempted.
type Policy struct {
	MaxTries int           // Total attempts, at least 1
	Delay    time.Duration // Wait between attempts, non-negative
}

// DefaultPolicy mirrors the runner defaults: 5 attempts, 2 seconds apart.
func DefaultPolicy() Policy {
	return Policy{MaxTries: 5, Delay: 2 * time.Second}
}

// Validate reports an invalid policy.
func (p Policy) Validate() error {
	if p.MaxTries < 1 {
		return fmt.Errorf("%w: max tries must be at least 1, got %d", ErrInvalidPolicy, p.MaxTries)
	}
	if p.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidPolicy, p.Delay)
	}
	return nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Returns nil for a nil err.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Option configures Wrap.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger logs failed attempts at debug level and exhausted units at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Wrap returns a unit that retries fn according to p and records the final failure in l.
//
// A nil ledger disables recording. If fn itself returns scheduler.ErrNoResult,
// the unit resolves as absent immediately without a ledger entry.
func Wrap[T any](fn scheduler.Unit[T], label string, p Policy, l *ledger.Ledger, opts ...Option) scheduler.Unit[T] {
	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	tries := max(p.MaxTries, 1)
	delay := max(p.Delay, 0)

	return func(ctx context.Context) (T, error) {
		var (
			out     T
			zero    T
			lastErr error
			attempt int
		)

		// Backoff state is per invocation
		backoff := goretry.WithMaxRetries(uint64(tries-1), goretry.BackoffFunc(func() (time.Duration, bool) {
			return delay, false
		}))

		err := goretry.Do(ctx, backoff, func(ctx context.Context) error {
			attempt++
			v, err := fn(ctx)
			if err == nil {
				out = v
				return nil
			}
			if errors.Is(err, scheduler.ErrNoResult) {
				return err
			}

			lastErr = err
			if IsPermanent(err) || ctx.Err() != nil {
				return err
			}

			o.logger.DebugContext(ctx, "attempt failed",
				logger.Label(label),
				logger.Attempt(attempt),
				logger.Error(err))
			return goretry.RetryableError(err)
		})

		switch {
		case err == nil:
			return out, nil
		case ctx.Err() != nil:
			return zero, ctx.Err()
		case errors.Is(err, scheduler.ErrNoResult):
			return zero, err
		}

		if p, ok := lastErr.(*permanentError); ok {
			lastErr = p.err
		}
		if l != nil {
			l.Record(lastErr, label)
		}

		o.logger.WarnContext(ctx, "unit exhausted",
			logger.Label(label),
			logger.Attempt(attempt),
			logger.ErrorKind(string(ledger.KindOf(lastErr))),
			logger.Error(lastErr))

		return zero, scheduler.ErrNoResult
	}
}
