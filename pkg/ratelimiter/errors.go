package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("ratelimiter: invalid configuration")
	ErrInvalidTokenCount = errors.New("ratelimiter: invalid token count")
	ErrStoreUnavailable  = errors.New("ratelimiter: store unavailable")
	// ErrRateLimitExceeded is returned by WaitN when n can never fit in the bucket.
	ErrRateLimitExceeded = errors.New("ratelimiter: rate limit exceeded")
)
