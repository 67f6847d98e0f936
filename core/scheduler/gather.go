package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/parsekit/core/logger"
)

// RunAll starts every unit at once and waits for all of them.
//
// The returned slice always has len(units) entries; units that returned
// ErrNoResult, or never ran because the batch was cancelled, are absent.
// Progress advances as units complete. WithLimit, WithGCInterval and
// WithDiscard have no effect here.
func RunAll[T any](ctx context.Context, units []Unit[T], opts ...Option) ([]Result[T], error) {
	o := newOptions(opts)
	start := time.Now()

	for _, u := range units {
		if u == nil {
			return nil, ErrNilUnit
		}
	}

	results := make([]Result[T], len(units))
	g, gctx := errgroup.WithContext(ctx)

	o.progress.Start(len(units))
	defer o.progress.Finish()

	for i, unit := range units {
		g.Go(func() error {
			defer o.progress.Add(1)

			v, err := call(gctx, unit)
			if err != nil {
				if errors.Is(err, ErrNoResult) {
					return nil
				}
				return err
			}
			// Each goroutine owns its own index
			results[i] = Result[T]{Value: v, OK: true}
			return nil
		})
	}

	err := g.Wait()

	o.logger.DebugContext(ctx, "gather finished",
		slog.Int("total", len(units)),
		logger.Elapsed(start),
		logger.Error(err))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return results, ctxErr
	}
	return results, err
}
