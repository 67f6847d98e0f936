package fetch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/parsekit/core/ledger"
)

// ErrInvalidConfig is returned for bad client settings.
var ErrInvalidConfig = errors.New("fetch: invalid config")

// StatusError is an HTTP response with an unexpected status.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s %s", e.Code, http.StatusText(e.Code), e.Method, e.URL)
}

// Kind files 429 responses as rate_limited and everything else as http_status.
func (e *StatusError) Kind() ledger.Kind {
	if e.Code == http.StatusTooManyRequests {
		return ledger.KindRateLimited
	}
	return ledger.KindHTTPStatus
}
