package fetch

import (
	"fmt"
	"time"
)

// Config holds the web settings of a Client.
type Config struct {
	ConnectionsLimit int           `env:"FETCH_CONNECTIONS_LIMIT" envDefault:"20"`
	AllowRedirects   bool          `env:"FETCH_ALLOW_REDIRECTS" envDefault:"false"`
	KeepAlive        bool          `env:"FETCH_KEEP_ALIVE" envDefault:"false"`
	KeepAliveTimeout time.Duration `env:"FETCH_KEEP_ALIVE_TIMEOUT" envDefault:"30s"`
	// RequestTimeout bounds each request including the body read. 0 means no limit.
	RequestTimeout time.Duration `env:"FETCH_REQUEST_TIMEOUT" envDefault:"0s"`
	UserAgent      string        `env:"FETCH_USER_AGENT"`
}

// DefaultConfig returns the env defaults.
func DefaultConfig() Config {
	return Config{
		ConnectionsLimit: 20,
		KeepAliveTimeout: 30 * time.Second,
	}
}

// Validate reports invalid limits.
func (c Config) Validate() error {
	if c.ConnectionsLimit < 1 {
		return fmt.Errorf("%w: connections limit must be at least 1, got %d", ErrInvalidConfig, c.ConnectionsLimit)
	}
	if c.KeepAliveTimeout < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}
