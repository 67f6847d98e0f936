package runner_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/parsekit/core/ledger"
	"github.com/dmitrymomot/parsekit/core/retry"
	"github.com/dmitrymomot/parsekit/core/runner"
	"github.com/dmitrymomot/parsekit/core/scheduler"
)

func newRunner(t *testing.T, out *bytes.Buffer, opts ...runner.Option) *runner.Runner {
	t.Helper()

	base := []runner.Option{
		runner.WithRetryDelay(0),
		runner.WithProgress(false, false),
		runner.WithOutput(out),
	}
	r, err := runner.New(append(base, opts...)...)
	require.NoError(t, err)
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		r, err := runner.New()
		require.NoError(t, err)
		assert.Equal(t, runner.DefaultConfig(), r.Config())

		cfg := r.Config()
		assert.Equal(t, 100, cfg.Concurrency)
		assert.Equal(t, 5, cfg.MaxTries)
		assert.Equal(t, 2*time.Second, cfg.RetryDelay)
		assert.True(t, cfg.ShowProgress)
		assert.True(t, cfg.ReportErrors)
		assert.False(t, cfg.ReturnErrors)
		assert.Equal(t, 2000, cfg.GCInterval)
	})

	t.Run("from config", func(t *testing.T) {
		t.Parallel()

		cfg := runner.DefaultConfig()
		cfg.Concurrency = 7
		r, err := runner.NewFromConfig(cfg, runner.WithMaxTries(2))
		require.NoError(t, err)
		assert.Equal(t, 7, r.Config().Concurrency)
		assert.Equal(t, 2, r.Config().MaxTries)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			opt  runner.Option
		}{
			{"zero concurrency", runner.WithConcurrency(0)},
			{"zero tries", runner.WithMaxTries(0)},
			{"negative delay", runner.WithRetryDelay(-time.Second)},
			{"negative gc interval", runner.WithGCInterval(-1)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				r, err := runner.New(tt.opt)
				assert.ErrorIs(t, err, runner.ErrInvalidConfig)
				assert.Nil(t, r)
			})
		}
	})

	t.Run("invalid policy keeps cause", func(t *testing.T) {
		t.Parallel()

		_, err := runner.New(runner.WithMaxTries(-1))
		assert.ErrorIs(t, err, retry.ErrInvalidPolicy)
	})
}

func TestWith(t *testing.T) {
	t.Parallel()

	r, err := runner.New(runner.WithConcurrency(4))
	require.NoError(t, err)

	next, err := r.With(runner.WithMaxTries(1), runner.WithReturnErrors(true))
	require.NoError(t, err)

	assert.Equal(t, 4, next.Config().Concurrency)
	assert.Equal(t, 1, next.Config().MaxTries)
	assert.True(t, next.Config().ReturnErrors)

	assert.Equal(t, 5, r.Config().MaxTries)
	assert.False(t, r.Config().ReturnErrors)

	_, err = r.With(runner.WithConcurrency(-3))
	assert.ErrorIs(t, err, runner.ErrInvalidConfig)
	assert.Equal(t, 4, r.Config().Concurrency)
}

func TestRun_FiveItemsLimitTwo(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out,
		runner.WithConcurrency(2),
		runner.WithMaxTries(1),
		runner.WithReturnErrors(true),
	)

	urls := []string{
		"https://example.com/1",
		"https://example.com/2",
		"https://example.com/3",
		"https://example.com/4",
		"https://example.com/5",
	}

	var active, peak atomic.Int32
	jobs := func(yield func(runner.Job[string]) bool) {
		for _, u := range urls {
			job := runner.Job[string]{
				Label: u,
				Do: func(ctx context.Context) (string, error) {
					n := active.Add(1)
					defer active.Add(-1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)

					if u == urls[1] {
						return "", errors.New("connection reset")
					}
					return "body of " + u, nil
				},
			}
			if !yield(job) {
				return
			}
		}
	}

	res, err := runner.Run(context.Background(), r, jobs, runner.Total(len(urls)))
	require.NoError(t, err)

	require.Len(t, res.Results, 5)
	assert.False(t, res.Results[1].OK)
	for _, i := range []int{0, 2, 3, 4} {
		v, ok := res.Results[i].Get()
		assert.True(t, ok)
		assert.Equal(t, "body of "+urls[i], v)
	}
	assert.Len(t, res.Values(), 4)
	assert.LessOrEqual(t, peak.Load(), int32(2))

	require.Len(t, res.Errors, 1)
	assert.Equal(t, urls[1], res.Errors[0].Label)
	assert.Equal(t, ledger.KindUnknown, res.Errors[0].Kind)
	assert.Equal(t, "unknown: 1\n", out.String())
	assert.Equal(t, "unknown: 1", r.Summary())
}

func TestRun_SuccessOnLastTry(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out, runner.WithMaxTries(3), runner.WithReturnErrors(true))

	var calls atomic.Int32
	jobs := slices.Values([]runner.Job[int]{{
		Label: "flaky",
		Do: func(ctx context.Context) (int, error) {
			if calls.Add(1) < 3 {
				return 0, errors.New("try again")
			}
			return 42, nil
		},
	}})

	res, err := runner.Run(context.Background(), r, jobs)
	require.NoError(t, err)

	assert.Equal(t, []int{42}, res.Values())
	assert.Empty(t, res.Errors)
	assert.Empty(t, out.String())
	assert.Equal(t, int32(3), calls.Load())
}

func TestRun_ExhaustedRecordsOnce(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out, runner.WithMaxTries(4), runner.WithReturnErrors(true))

	var calls atomic.Int32
	jobs := slices.Values([]runner.Job[int]{{
		Label: "broken",
		Do: func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 0, ledger.New(ledger.KindHTTPStatus, "status 503")
		},
	}})

	res, err := runner.Run(context.Background(), r, jobs)
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.False(t, res.Results[0].OK)
	assert.Equal(t, int32(4), calls.Load())
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken", res.Errors[0].Label)
	assert.Equal(t, ledger.KindHTTPStatus, res.Errors[0].Kind)
}

func TestRun_LedgerClearedPerRun(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out, runner.WithMaxTries(1))

	failing := slices.Values([]runner.Job[int]{
		{Label: "a", Do: func(ctx context.Context) (int, error) { return 0, errors.New("a") }},
		{Label: "b", Do: func(ctx context.Context) (int, error) { return 0, errors.New("b") }},
	})
	res, err := runner.Run(context.Background(), r, failing)
	require.NoError(t, err)
	assert.Nil(t, res.Errors, "errors are returned only when enabled")
	assert.Len(t, r.Errors(), 2)

	passing := slices.Values([]runner.Job[int]{
		{Label: "c", Do: func(ctx context.Context) (int, error) { return 1, nil }},
	})
	_, err = runner.Run(context.Background(), r, passing)
	require.NoError(t, err)
	assert.Empty(t, r.Errors())
	assert.Empty(t, r.Summary())
}

func TestRun_ReportErrorsDisabled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out, runner.WithMaxTries(1), runner.WithReportErrors(false))

	jobs := slices.Values([]runner.Job[int]{
		{Label: "x", Do: func(ctx context.Context) (int, error) { return 0, context.DeadlineExceeded }},
	})
	_, err := runner.Run(context.Background(), r, jobs)
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.Equal(t, "timeout: 1", r.Summary())
}

func TestRun_Discard(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out, runner.WithConcurrency(3))

	var done atomic.Int32
	jobs := func(yield func(runner.Job[struct{}]) bool) {
		for i := range 10 {
			job := runner.Job[struct{}]{
				Label: fmt.Sprint(i),
				Do: func(ctx context.Context) (struct{}, error) {
					done.Add(1)
					return struct{}{}, nil
				},
			}
			if !yield(job) {
				return
			}
		}
	}

	res, err := runner.Run(context.Background(), r, jobs, runner.Discard())
	require.NoError(t, err)
	assert.Nil(t, res.Results)
	assert.Equal(t, int32(10), done.Load())
}

func TestRun_NilJob(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out)

	jobs := slices.Values([]runner.Job[int]{{Label: "nil"}})
	_, err := runner.Run(context.Background(), r, jobs)
	assert.ErrorIs(t, err, scheduler.ErrNilUnit)

	_, err = runner.RunAll(context.Background(), r, []runner.Job[int]{{Label: "nil"}})
	assert.ErrorIs(t, err, scheduler.ErrNilUnit)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newRunner(t, &out, runner.WithConcurrency(1), runner.WithMaxTries(1))

	ctx, cancel := context.WithCancel(context.Background())
	jobs := func(yield func(runner.Job[int]) bool) {
		for i := range 100 {
			job := runner.Job[int]{
				Label: fmt.Sprint(i),
				Do: func(ctx context.Context) (int, error) {
					if i == 2 {
						cancel()
					}
					return i, nil
				},
			}
			if !yield(job) {
				return
			}
		}
	}

	res, err := runner.Run(ctx, r, jobs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, len(res.Results), 100)
	assert.Empty(t, r.Errors())
}

type countingProgress struct {
	mu       sync.Mutex
	total    int
	added    int
	finished int
}

func (p *countingProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *countingProgress) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added += n
}

func (p *countingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished++
}

func TestRun_Progress(t *testing.T) {
	t.Parallel()

	t.Run("custom reporter", func(t *testing.T) {
		t.Parallel()

		p := &countingProgress{}
		var out bytes.Buffer
		r := newRunner(t, &out, runner.WithProgress(true, false), runner.WithProgressReporter(p))

		jobs := []runner.Job[int]{
			{Label: "1", Do: func(ctx context.Context) (int, error) { return 1, nil }},
			{Label: "2", Do: func(ctx context.Context) (int, error) { return 2, nil }},
			{Label: "3", Do: func(ctx context.Context) (int, error) { return 3, nil }},
		}
		_, err := runner.Run(context.Background(), r, slices.Values(jobs), runner.Total(3))
		require.NoError(t, err)

		assert.Equal(t, 3, p.total)
		assert.Equal(t, 3, p.added)
		assert.Equal(t, 1, p.finished)
	})

	t.Run("hidden", func(t *testing.T) {
		t.Parallel()

		p := &countingProgress{}
		var out bytes.Buffer
		r := newRunner(t, &out, runner.WithProgressReporter(p))

		jobs := []runner.Job[int]{{Label: "1", Do: func(ctx context.Context) (int, error) { return 1, nil }}}
		_, err := runner.RunAll(context.Background(), r, jobs)
		require.NoError(t, err)
		assert.Zero(t, p.finished)
	})

	t.Run("built-in bar writes to output", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		r := newRunner(t, &out, runner.WithProgress(true, true))

		jobs := []runner.Job[int]{{Label: "1", Do: func(ctx context.Context) (int, error) { return 1, nil }}}
		_, err := runner.RunAll(context.Background(), r, jobs)
		require.NoError(t, err)
		assert.NotEmpty(t, out.String())
	})
}

func TestRun_Reclaimer(t *testing.T) {
	t.Parallel()

	var reclaimed atomic.Int32
	var out bytes.Buffer
	r := newRunner(t, &out,
		runner.WithGCInterval(2),
		runner.WithReclaimer(func() { reclaimed.Add(1) }),
	)

	jobs := make([]runner.Job[int], 5)
	for i := range jobs {
		jobs[i] = runner.Job[int]{Label: fmt.Sprint(i), Do: func(ctx context.Context) (int, error) { return i, nil }}
	}
	_, err := runner.Run(context.Background(), r, slices.Values(jobs))
	require.NoError(t, err)
	assert.Equal(t, int32(2), reclaimed.Load())
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	t.Run("starts every job at once", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		// Concurrency does not cap RunAll
		r := newRunner(t, &out, runner.WithConcurrency(1))

		const n = 8
		var started sync.WaitGroup
		started.Add(n)
		allStarted := make(chan struct{})
		go func() {
			started.Wait()
			close(allStarted)
		}()

		jobs := make([]runner.Job[int], n)
		for i := range jobs {
			jobs[i] = runner.Job[int]{
				Label: fmt.Sprint(i),
				Do: func(ctx context.Context) (int, error) {
					started.Done()
					select {
					case <-allStarted:
						return i * i, nil
					case <-time.After(2 * time.Second):
						return 0, errors.New("not started together")
					}
				},
			}
		}

		res, err := runner.RunAll(context.Background(), r, jobs)
		require.NoError(t, err)
		require.Len(t, res.Results, n)
		for i, v := range res.Values() {
			assert.Equal(t, i*i, v)
		}
	})

	t.Run("absent results keep positions", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		r := newRunner(t, &out, runner.WithMaxTries(2), runner.WithReturnErrors(true))

		jobs := []runner.Job[string]{
			{Label: "ok", Do: func(ctx context.Context) (string, error) { return "a", nil }},
			{Label: "gone", Do: func(ctx context.Context) (string, error) {
				return "", retry.Permanent(ledger.New(ledger.KindNotFound, "missing"))
			}},
			{Label: "ok2", Do: func(ctx context.Context) (string, error) { return "c", nil }},
		}

		res, err := runner.RunAll(context.Background(), r, jobs)
		require.NoError(t, err)
		require.Len(t, res.Results, 3)
		assert.True(t, res.Results[0].OK)
		assert.False(t, res.Results[1].OK)
		assert.True(t, res.Results[2].OK)
		assert.Equal(t, []string{"a", "c"}, res.Values())

		require.Len(t, res.Errors, 1)
		assert.Equal(t, "gone", res.Errors[0].Label)
		assert.Equal(t, ledger.KindNotFound, res.Errors[0].Kind)
		assert.Equal(t, "not_found: 1\n", out.String())
	})

	t.Run("discard", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		r := newRunner(t, &out)

		jobs := []runner.Job[int]{{Label: "1", Do: func(ctx context.Context) (int, error) { return 1, nil }}}
		res, err := runner.RunAll(context.Background(), r, jobs, runner.Discard())
		require.NoError(t, err)
		assert.Nil(t, res.Results)
	})
}
