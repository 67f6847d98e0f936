package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/parsekit/core/scheduler"
)

// Option changes a Runner's settings. Values are checked by Config.Validate, not here.
type Option func(*Runner)

func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.cfg.Concurrency = n
	}
}

func WithMaxTries(n int) Option {
	return func(r *Runner) {
		r.cfg.MaxTries = n
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.cfg.RetryDelay = d
	}
}

func WithGCInterval(n int) Option {
	return func(r *Runner) {
		r.cfg.GCInterval = n
	}
}

// WithProgress toggles the progress bar. ascii draws it with plain characters.
func WithProgress(show, ascii bool) Option {
	return func(r *Runner) {
		r.cfg.ShowProgress = show
		r.cfg.ProgressASCII = ascii
	}
}

// WithReportErrors toggles the one-line error summary written after each run.
func WithReportErrors(report bool) Option {
	return func(r *Runner) {
		r.cfg.ReportErrors = report
	}
}

// WithReturnErrors attaches the ledger snapshot to every Output.
func WithReturnErrors(ret bool) Option {
	return func(r *Runner) {
		r.cfg.ReturnErrors = ret
	}
}

// WithOutput sets where the progress bar and error summary are written. Defaults to os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithProgressReporter replaces the built-in progress bar. It is used only when progress is shown.
func WithProgressReporter(p scheduler.Progress) Option {
	return func(r *Runner) {
		r.reporter = p
	}
}

// WithReclaimer replaces runtime.GC as the periodic reclamation hint.
func WithReclaimer(fn func()) Option {
	return func(r *Runner) {
		r.reclaim = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// RunOption configures a single run.
type RunOption func(*runOptions)

type runOptions struct {
	total   int
	discard bool
}

// Total passes the expected job count to progress reporting when jobs is a lazy sequence.
func Total(n int) RunOption {
	return func(o *runOptions) {
		o.total = n
	}
}

// Discard drops job results. Output.Results is nil; only side effects and errors remain.
func Discard() RunOption {
	return func(o *runOptions) {
		o.discard = true
	}
}

func newRunOptions(opts []RunOption) runOptions {
	o := runOptions{total: -1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
