package runner

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/parsekit/core/retry"
	"github.com/dmitrymomot/parsekit/core/scheduler"
)

// Config holds the settings of a Runner. Loadable from the environment via core/config.
type Config struct {
	Concurrency   int           `env:"RUNNER_CONCURRENCY" envDefault:"100"`
	MaxTries      int           `env:"RUNNER_MAX_TRIES" envDefault:"5"`
	RetryDelay    time.Duration `env:"RUNNER_RETRY_DELAY" envDefault:"2s"`
	ShowProgress  bool          `env:"RUNNER_SHOW_PROGRESS" envDefault:"true"`
	ProgressASCII bool          `env:"RUNNER_PROGRESS_ASCII" envDefault:"false"`
	ReportErrors  bool          `env:"RUNNER_REPORT_ERRORS" envDefault:"true"`
	ReturnErrors  bool          `env:"RUNNER_RETURN_ERRORS" envDefault:"false"`
	GCInterval    int           `env:"RUNNER_GC_INTERVAL" envDefault:"2000"`
}

// DefaultConfig returns the defaults used by New.
func DefaultConfig() Config {
	p := retry.DefaultPolicy()
	return Config{
		Concurrency:  scheduler.DefaultLimit,
		MaxTries:     p.MaxTries,
		RetryDelay:   p.Delay,
		ShowProgress: true,
		ReportErrors: true,
		GCInterval:   scheduler.DefaultGCInterval,
	}
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidConfig, c.Concurrency)
	}
	if c.GCInterval < 0 {
		return fmt.Errorf("%w: gc interval must not be negative, got %d", ErrInvalidConfig, c.GCInterval)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Policy returns the retry policy for each job.
func (c Config) Policy() retry.Policy {
	return retry.Policy{MaxTries: c.MaxTries, Delay: c.RetryDelay}
}
