// Package parsekit is a toolkit for running large batches of asynchronous
// jobs: fetching pages, calling APIs and downloading files, with bounded
// concurrency, per-job retries and a per-run error summary.
//
// The module root holds no code; this file indexes the packages.
//
// # Core Packages
//
// The batch engine and its ambient concerns:
//
//	github.com/dmitrymomot/parsekit/core/scheduler - Bounded scheduler and unbounded gather over Unit[T]
//	github.com/dmitrymomot/parsekit/core/retry     - Fixed-delay retry wrapper that records exhausted jobs
//	github.com/dmitrymomot/parsekit/core/ledger    - Error ledger with kinded errors and per-kind summary
//	github.com/dmitrymomot/parsekit/core/runner    - Runs labelled jobs with retry, progress and reporting
//	github.com/dmitrymomot/parsekit/core/config    - Type-safe environment variable loading
//	github.com/dmitrymomot/parsekit/core/logger    - Structured logging built on slog
//	github.com/dmitrymomot/parsekit/core/storage   - Sink interface and local filesystem storage
//
// # Web Packages
//
// Batch HTTP on top of the runner:
//
//	github.com/dmitrymomot/parsekit/fetch    - HTTP client with shared settings and a batch Run with callbacks
//	github.com/dmitrymomot/parsekit/download - Concurrent file downloader with folder and name broadcasting
//
// # Utility Packages
//
// Standalone packages used by the engine and the web packages:
//
//	github.com/dmitrymomot/parsekit/pkg/broadcast   - Scalar-or-sequence parameters with length validation
//	github.com/dmitrymomot/parsekit/pkg/progress    - Terminal progress bar for runs
//	github.com/dmitrymomot/parsekit/pkg/ratelimiter - Per-host token bucket with memory and Redis stores
//	github.com/dmitrymomot/parsekit/pkg/webutil     - Cookies, URL building and matching, JSON files, file names
//
// # Integration Packages
//
// Implementations backed by external services:
//
//	github.com/dmitrymomot/parsekit/integration/database/redis - Redis connection with retry and health check
//	github.com/dmitrymomot/parsekit/integration/storage/s3     - S3-compatible storage sink
//
// # Getting Documentation
//
// For detailed documentation on any package, use the go doc command:
//
//	go doc github.com/dmitrymomot/parsekit/core/runner
//	go doc -all github.com/dmitrymomot/parsekit/download
package parsekit
