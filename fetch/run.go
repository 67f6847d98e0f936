package fetch

import (
	"context"

	"github.com/dmitrymomot/parsekit/core/runner"
	"github.com/dmitrymomot/parsekit/pkg/broadcast"
)

// Callback turns a response body into a result.
type Callback[T any] func(ctx context.Context, url string, body []byte) (T, error)

// RequestOptions are the per-request extras applied on top of the client settings.
type RequestOptions struct {
	Method string
	Header map[string]string
	Query  map[string]string
	Body   []byte
}

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	request broadcast.Value[RequestOptions]
}

// WithMethod sets the method of every request.
func WithMethod(method string) RunOption {
	return func(rc *runConfig) {
		rc.request = broadcast.Scalar(RequestOptions{Method: method})
	}
}

// WithRequestOptions sets per-request extras: one value for all URLs or one per URL.
func WithRequestOptions(v broadcast.Value[RequestOptions]) RunOption {
	return func(rc *runConfig) {
		rc.request = v
	}
}

// Run requests every URL at once and passes each body to cb. The output has one
// result per URL in order; failed URLs are absent and recorded in the ledger.
func Run[T any](ctx context.Context, c *Client, urls []string, cb Callback[T], opts ...RunOption) (runner.Output[T], error) {
	rc := runConfig{request: broadcast.Scalar(RequestOptions{})}
	for _, opt := range opts {
		opt(&rc)
	}

	base := broadcast.FromSlice(urls)
	if err := broadcast.Validate(base, broadcast.Param("request options", rc.request)); err != nil {
		return runner.Output[T]{}, err
	}

	jobs := make([]runner.Job[T], len(urls))
	for i, u := range urls {
		ro := rc.request.Get(i)
		jobs[i] = runner.Job[T]{
			Label: u,
			Do: func(ctx context.Context) (T, error) {
				var zero T
				resp, err := c.Do(ctx, Request{
					Method: ro.Method,
					URL:    u,
					Header: ro.Header,
					Query:  ro.Query,
					Body:   ro.Body,
				})
				if err != nil {
					return zero, err
				}
				return cb(ctx, u, resp.Body)
			},
		}
	}

	return runner.RunAll(ctx, c.runner, jobs)
}
