package scheduler

import (
	"io"
	"log/slog"
	"runtime"
)

const (
	// DefaultLimit is the concurrency cap used when none is given.
	DefaultLimit = 100
	// DefaultGCInterval is the number of submissions between reclaimer calls.
	DefaultGCInterval = 2000
)

// Option configures a batch run.
type Option func(*options)

type options struct {
	limit      int
	total      int
	gcInterval int
	discard    bool
	progress   Progress
	reclaim    func()
	logger     *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		limit:      DefaultLimit,
		total:      -1,
		gcInterval: DefaultGCInterval,
		progress:   noopProgress{},
		reclaim:    runtime.GC,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLimit sets how many units may run at once. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithTotal passes the expected number of units to progress reporting.
func WithTotal(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.total = n
		}
	}
}

// WithGCInterval sets how many submissions pass between reclaimer calls. 0 disables it.
func WithGCInterval(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.gcInterval = n
		}
	}
}

// WithDiscard drops unit results; RunBounded then returns a nil slice.
func WithDiscard() Option {
	return func(o *options) {
		o.discard = true
	}
}

// WithProgress sets the progress receiver.
func WithProgress(p Progress) Option {
	return func(o *options) {
		if p != nil {
			o.progress = p
		}
	}
}

// WithReclaimer replaces runtime.GC as the periodic memory reclamation hint.
func WithReclaimer(fn func()) Option {
	return func(o *options) {
		if fn != nil {
			o.reclaim = fn
		}
	}
}

// WithLogger sets the logger for batch lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
