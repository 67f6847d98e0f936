package scheduler

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrymomot/parsekit/core/logger"
)

// RunBounded runs units with at most the configured limit in flight.
//
// Units are pulled from the sequence lazily, one per free slot. Results are
// returned in submission order unless WithDiscard is set. If ctx is cancelled,
// no further units are admitted, in-flight units are awaited and the partial
// results are returned together with ctx.Err().
func RunBounded[T any](ctx context.Context, units iter.Seq[Unit[T]], opts ...Option) ([]Result[T], error) {
	o := newOptions(opts)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(o.limit))

	var (
		mu      sync.Mutex
		results []Result[T]
		absent  int
	)
	if !o.discard && o.total > 0 {
		results = make([]Result[T], 0, o.total)
	}

	o.progress.Start(o.total)
	defer o.progress.Finish()

	o.logger.DebugContext(ctx, "bounded batch started",
		slog.Int("limit", o.limit),
		slog.Int("total", o.total))

	submitted := 0
	for unit := range units {
		// Acquire may succeed on an already cancelled context
		if gctx.Err() != nil {
			break
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		if unit == nil {
			sem.Release(1)
			g.Go(func() error { return ErrNilUnit })
			break
		}

		idx := submitted
		submitted++
		if !o.discard {
			mu.Lock()
			results = append(results, Result[T]{})
			mu.Unlock()
		}

		g.Go(func() error {
			defer sem.Release(1)

			v, err := call(gctx, unit)
			if err != nil {
				if errors.Is(err, ErrNoResult) {
					mu.Lock()
					absent++
					mu.Unlock()
					return nil
				}
				return err
			}

			if !o.discard {
				mu.Lock()
				results[idx] = Result[T]{Value: v, OK: true}
				mu.Unlock()
			}
			return nil
		})

		o.progress.Add(1)
		if o.gcInterval > 0 && submitted%o.gcInterval == 0 {
			o.reclaim()
		}
	}

	err := g.Wait()

	o.logger.DebugContext(ctx, "bounded batch finished",
		slog.Int("submitted", submitted),
		slog.Int("absent", absent),
		logger.Elapsed(start),
		logger.Error(err))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return results, ctxErr
	}
	if err != nil {
		return results, err
	}
	if o.discard {
		return nil, nil
	}
	return results, nil
}
