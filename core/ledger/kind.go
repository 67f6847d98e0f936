package ledger

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
)

// Kind groups errors in the ledger summary.
type Kind string

const (
	KindUnknown     Kind = "unknown"
	KindTimeout     Kind = "timeout"
	KindCanceled    Kind = "canceled"
	KindNetwork     Kind = "network"
	KindHTTPStatus  Kind = "http_status"
	KindEmptyBody   Kind = "empty_body"
	KindIO          Kind = "io"
	KindNotFound    Kind = "not_found"
	KindPermission  Kind = "permission"
	KindRateLimited Kind = "rate_limited"
)

// Kinder is implemented by errors that know their own kind.
type Kinder interface {
	Kind() Kind
}

// Error is an error tagged with a Kind.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New returns an error of the given kind with a plain message.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Wrap tags err with kind. Returns nil for a nil err.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, err: err}
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.err.Error()
	}
	return e.msg + ": " + e.err.Error()
}

func (e *Error) Kind() Kind    { return e.kind }
func (e *Error) Unwrap() error { return e.err }

// KindOf classifies err. The outermost Kinder in the chain wins.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var k Kinder
	if errors.As(err, &k) {
		return k.Kind()
	}

	// Context errors first: a timed out dial is still a timeout, not a network error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var opErr *net.OpError
	var urlErr *url.Error
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.As(err, &urlErr) {
		return KindNetwork
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}

	return KindUnknown
}
