package ratelimiter

import (
	"fmt"
	"time"
)

// Config describes a token bucket.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"10"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1s"`
}

// DefaultConfig allows bursts of 10 requests and 10 requests per second after that.
func DefaultConfig() Config {
	return Config{
		Capacity:       10,
		RefillRate:     10,
		RefillInterval: time.Second,
	}
}

// Validate reports non-positive values.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be positive, got %s", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// refill returns the tokens after the elapsed time and the new refill mark.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	if now.Before(last) {
		return tokens, last
	}
	// Capping avoids overflow for long idle buckets
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := min(int64(now.Sub(last)/c.RefillInterval), maxIntervals)
	if intervals <= 0 {
		return tokens, last
	}
	tokens = min(tokens+int(intervals)*c.RefillRate, c.Capacity)
	if tokens == c.Capacity {
		return tokens, now
	}
	return tokens, last.Add(time.Duration(intervals) * c.RefillInterval)
}
