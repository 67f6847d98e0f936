package runner

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/parsekit/core/ledger"
	"github.com/dmitrymomot/parsekit/core/logger"
	"github.com/dmitrymomot/parsekit/core/retry"
	"github.com/dmitrymomot/parsekit/core/scheduler"
	"github.com/dmitrymomot/parsekit/pkg/progress"
)

// Job is a labelled unit of work. The label identifies the job in ledger records.
type Job[T any] struct {
	Label string
	Do    scheduler.Unit[T]
}

// Output is the result of a run.
type Output[T any] struct {
	// Results holds one entry per job in submission order. Nil when the run discarded results.
	Results []scheduler.Result[T]
	// Errors is the ledger snapshot. Set only when ReturnErrors is enabled.
	Errors []ledger.Record
}

// Values returns the present results in order.
func (o Output[T]) Values() []T {
	return scheduler.Present(o.Results)
}

// Runner executes batches of jobs with one immutable configuration.
type Runner struct {
	cfg      Config
	logger   *slog.Logger
	out      io.Writer
	reporter scheduler.Progress
	reclaim  func()

	mu     sync.Mutex
	ledger *ledger.Ledger
}

// New returns a Runner built from DefaultConfig and opts.
func New(opts ...Option) (*Runner, error) {
	return NewFromConfig(DefaultConfig(), opts...)
}

// NewFromConfig returns a Runner built from cfg and opts.
func NewFromConfig(cfg Config, opts ...Option) (*Runner, error) {
	r := &Runner{
		cfg:    cfg,
		logger: logger.Discard(),
		out:    os.Stderr,
		ledger: ledger.NewLedger(),
	}
	return r.apply(opts)
}

// With returns a new Runner with opts applied on top of r's settings. r is unchanged.
func (r *Runner) With(opts ...Option) (*Runner, error) {
	next := &Runner{
		cfg:      r.cfg,
		logger:   r.logger,
		out:      r.out,
		reporter: r.reporter,
		reclaim:  r.reclaim,
		ledger:   ledger.NewLedger(),
	}
	return next.apply(opts)
}

func (r *Runner) apply(opts []Option) (*Runner, error) {
	for _, opt := range opts {
		opt(r)
	}
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Config returns a copy of the runner's settings.
func (r *Runner) Config() Config {
	return r.cfg
}

// Errors returns the records of the most recent run.
func (r *Runner) Errors() []ledger.Record {
	return r.ledger.Records()
}

// Summary returns the error summary of the most recent run, e.g. "timeout: 2, http_status: 1".
func (r *Runner) Summary() string {
	return r.ledger.Summary()
}

// Run admits jobs through the bounded scheduler, at most Concurrency at a time.
// jobs is consumed lazily.
func Run[T any](ctx context.Context, r *Runner, jobs iter.Seq[Job[T]], opts ...RunOption) (Output[T], error) {
	ro := newRunOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.begin("bounded")
	policy := r.cfg.Policy()

	units := func(yield func(scheduler.Unit[T]) bool) {
		for job := range jobs {
			if !yield(wrap(job, policy, r.ledger, log)) {
				return
			}
		}
	}

	sopts := r.schedulerOptions(log)
	sopts = append(sopts, scheduler.WithLimit(r.cfg.Concurrency))
	if ro.total >= 0 {
		sopts = append(sopts, scheduler.WithTotal(ro.total))
	}
	if ro.discard {
		sopts = append(sopts, scheduler.WithDiscard())
	}

	results, err := scheduler.RunBounded(ctx, units, sopts...)
	return finish(r, log, results, err)
}

// RunAll starts every job at once. Concurrency does not apply; use a scheduler.Limiter
// inside the jobs to cap shared resources.
func RunAll[T any](ctx context.Context, r *Runner, jobs []Job[T], opts ...RunOption) (Output[T], error) {
	ro := newRunOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.begin("gather")
	policy := r.cfg.Policy()

	units := make([]scheduler.Unit[T], len(jobs))
	for i, job := range jobs {
		units[i] = wrap(job, policy, r.ledger, log)
	}

	results, err := scheduler.RunAll(ctx, units, r.schedulerOptions(log)...)
	if ro.discard {
		results = nil
	}
	return finish(r, log, results, err)
}

// begin clears the ledger and returns a logger tagged with a fresh run id.
func (r *Runner) begin(mode string) *slog.Logger {
	r.ledger.Clear()
	log := r.logger.With(logger.RunID(uuid.NewString()), slog.String("mode", mode))
	log.Debug("run started",
		slog.Int("concurrency", r.cfg.Concurrency),
		slog.Int("max_tries", r.cfg.MaxTries),
		logger.Delay(r.cfg.RetryDelay),
	)
	return log
}

func (r *Runner) schedulerOptions(log *slog.Logger) []scheduler.Option {
	opts := []scheduler.Option{
		scheduler.WithGCInterval(r.cfg.GCInterval),
		scheduler.WithLogger(log),
	}
	if r.reclaim != nil {
		opts = append(opts, scheduler.WithReclaimer(r.reclaim))
	}
	if p := r.progress(); p != nil {
		opts = append(opts, scheduler.WithProgress(p))
	}
	return opts
}

func (r *Runner) progress() scheduler.Progress {
	if !r.cfg.ShowProgress {
		return nil
	}
	if r.reporter != nil {
		return r.reporter
	}
	popts := []progress.Option{progress.WithWriter(r.out)}
	if r.cfg.ProgressASCII {
		popts = append(popts, progress.WithASCII())
	}
	return progress.New(popts...)
}

// report writes the summary line when the last run recorded errors.
func (r *Runner) report(log *slog.Logger) {
	n := r.ledger.Len()
	if n == 0 {
		return
	}
	summary := r.ledger.Summary()
	log.Warn("run finished with errors", logger.Count("errors", n), slog.String("summary", summary))
	if r.cfg.ReportErrors {
		fmt.Fprintln(r.out, summary)
	}
}

// wrap passes a nil Do through so the scheduler rejects it.
func wrap[T any](job Job[T], p retry.Policy, l *ledger.Ledger, log *slog.Logger) scheduler.Unit[T] {
	if job.Do == nil {
		return nil
	}
	return retry.Wrap(job.Do, job.Label, p, l, retry.WithLogger(log))
}

func finish[T any](r *Runner, log *slog.Logger, results []scheduler.Result[T], err error) (Output[T], error) {
	out := Output[T]{Results: results}

	r.report(log)
	if r.cfg.ReturnErrors {
		out.Errors = r.ledger.Records()
	}
	if err != nil {
		log.Error("run failed", logger.Error(err))
	}
	return out, err
}
