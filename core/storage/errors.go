package storage

import "github.com/dmitrymomot/parsekit/core/ledger"

var (
	ErrInvalidConfig      = ledger.New(ledger.KindUnknown, "storage: invalid configuration")
	ErrInvalidPath        = ledger.New(ledger.KindIO, "storage: invalid path")
	ErrFileNotFound       = ledger.New(ledger.KindNotFound, "storage: file not found")
	ErrBucketNotFound     = ledger.New(ledger.KindNotFound, "storage: bucket not found")
	ErrAccessDenied       = ledger.New(ledger.KindPermission, "storage: access denied")
	ErrOperationTimeout   = ledger.New(ledger.KindTimeout, "storage: operation timeout")
	ErrOperationCanceled  = ledger.New(ledger.KindCanceled, "storage: operation canceled")
	ErrRequestTimeout     = ledger.New(ledger.KindTimeout, "storage: request timeout")
	ErrServiceUnavailable = ledger.New(ledger.KindRateLimited, "storage: service unavailable")
	ErrInvalidObjectState = ledger.New(ledger.KindIO, "storage: invalid object state")
	ErrFailedToWriteFile  = ledger.New(ledger.KindIO, "storage: failed to write file")
)
