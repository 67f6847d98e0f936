package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dmitrymomot/parsekit/core/logger"
	"github.com/dmitrymomot/parsekit/core/runner"
	"github.com/dmitrymomot/parsekit/core/scheduler"
	"github.com/dmitrymomot/parsekit/pkg/ratelimiter"
	"github.com/dmitrymomot/parsekit/pkg/webutil"
)

// Client performs requests with shared web settings.
type Client struct {
	cfg       Config
	runner    *runner.Runner
	headers   http.Header
	cookies   []*http.Cookie
	rate      *ratelimiter.Bucket
	transport http.RoundTripper
	logger    *slog.Logger

	http  *http.Client
	conns *scheduler.Limiter
}

// New returns a Client built from DefaultConfig. A nil r gets a default runner.
func New(r *runner.Runner, opts ...Option) (*Client, error) {
	return NewFromConfig(DefaultConfig(), r, opts...)
}

// NewFromConfig returns a Client built from cfg and opts.
func NewFromConfig(cfg Config, r *runner.Runner, opts ...Option) (*Client, error) {
	if r == nil {
		var err error
		if r, err = runner.New(); err != nil {
			return nil, err
		}
	}

	c := &Client{
		cfg:     cfg,
		runner:  r,
		headers: make(http.Header),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("fetch: cookie jar: %w", err)
	}

	if c.transport == nil {
		c.transport = c.newTransport()
	}
	c.http = &http.Client{
		Transport: c.transport,
		Jar:       jar,
	}
	if !c.cfg.AllowRedirects {
		c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	c.conns = scheduler.NewLimiter(c.cfg.ConnectionsLimit)

	return c, nil
}

func (c *Client) newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxConnsPerHost = c.cfg.ConnectionsLimit
	t.MaxIdleConns = c.cfg.ConnectionsLimit
	t.MaxIdleConnsPerHost = c.cfg.ConnectionsLimit
	t.DisableKeepAlives = !c.cfg.KeepAlive
	t.IdleConnTimeout = c.cfg.KeepAliveTimeout
	t.DialContext = (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: c.cfg.KeepAliveTimeout,
	}).DialContext
	return t
}

// Runner returns the runner used by Run and the downloader.
func (c *Client) Runner() *runner.Runner {
	return c.runner
}

// Config returns a copy of the client's settings.
func (c *Client) Config() Config {
	return c.cfg
}

// Cookies returns the cookies sent with every request as a name to value map.
func (c *Client) Cookies() map[string]string {
	return webutil.CookiesToMap(c.cookies)
}

// Request describes one request. Zero fields fall back to GET without extras.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Query  map[string]string
	Body   []byte
}

// Response is a fully read response.
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do performs req and reads the whole body. Statuses of 400 and above return the
// response together with a *StatusError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := req.URL
	if len(req.Query) > 0 {
		var err error
		if target, err = webutil.BuildURL(req.URL, req.Query); err != nil {
			return nil, err
		}
	}

	if c.rate != nil {
		if err := c.rate.Wait(ctx, ratelimiter.HostKey(target)); err != nil {
			return nil, err
		}
	}

	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	var resp *Response
	err := c.conns.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = c.do(ctx, target, req)
		return err
	})
	return resp, err
}

func (c *Client) do(ctx context.Context, target string, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	hreq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.headers {
		hreq.Header[k] = vs
	}
	if c.cfg.UserAgent != "" {
		hreq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range req.Header {
		hreq.Header.Set(k, v)
	}
	for _, ck := range c.cookies {
		hreq.AddCookie(ck)
	}

	start := time.Now()
	hresp, err := c.http.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer hresp.Body.Close()

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "request done",
		logger.Method(method),
		logger.URL(target),
		logger.StatusCode(hresp.StatusCode),
		logger.BytesIn(int64(len(data))),
		logger.Elapsed(start))

	resp := &Response{
		URL:        target,
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       data,
	}
	if hresp.StatusCode >= http.StatusBadRequest {
		return resp, &StatusError{Method: method, URL: target, Code: hresp.StatusCode}
	}
	return resp, nil
}
