package fetch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/parsekit/pkg/ratelimiter"
)

// Option configures a Client.
type Option func(*Client)

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers.Set(k, v)
		}
	}
}

// WithCookies sends cookies with every request regardless of host.
func WithCookies(cookies map[string]string) Option {
	return func(c *Client) {
		for name, value := range cookies {
			c.cookies = append(c.cookies, &http.Cookie{Name: name, Value: value})
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.cfg.UserAgent = ua
	}
}

// WithConnectionsLimit caps the requests in flight across all hosts.
func WithConnectionsLimit(n int) Option {
	return func(c *Client) {
		c.cfg.ConnectionsLimit = n
	}
}

func WithRedirects(allow bool) Option {
	return func(c *Client) {
		c.cfg.AllowRedirects = allow
	}
}

// WithKeepAlive toggles connection reuse. timeout is how long idle connections are kept.
func WithKeepAlive(keep bool, timeout time.Duration) Option {
	return func(c *Client) {
		c.cfg.KeepAlive = keep
		c.cfg.KeepAliveTimeout = timeout
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.cfg.RequestTimeout = d
	}
}

// WithRateLimiter makes every request wait for a token keyed by host.
func WithRateLimiter(b *ratelimiter.Bucket) Option {
	return func(c *Client) {
		c.rate = b
	}
}

// WithTransport replaces the default transport. Connection and keep-alive settings are then up to rt.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}
