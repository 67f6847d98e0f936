package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/parsekit/core/logger"
	"github.com/dmitrymomot/parsekit/core/runner"
	"github.com/dmitrymomot/parsekit/core/storage"
	"github.com/dmitrymomot/parsekit/download"
	"github.com/dmitrymomot/parsekit/fetch"
	"github.com/dmitrymomot/parsekit/integration/database/redis"
	"github.com/dmitrymomot/parsekit/integration/storage/s3"
	"github.com/dmitrymomot/parsekit/pkg/ratelimiter"
	"github.com/dmitrymomot/parsekit/pkg/webutil"
)

// appConfig is loaded from the environment and an optional .env file.
type appConfig struct {
	Log       logger.Config
	Runner    runner.Config
	Fetch     fetch.Config
	Download  download.Config
	RateLimit ratelimiter.Config
	Redis     redis.Config
	S3        s3.S3Config
}

type appFlags struct {
	cookiesPath string
	rateLimit   bool
	redis       bool
	s3          bool
}

type app struct {
	cfg    appConfig
	flags  appFlags
	log    *slog.Logger
	client *fetch.Client
	rdb    *goredis.Client
}

func newApp(ctx context.Context, cfg appConfig, f appFlags) (*app, error) {
	a := &app{
		cfg:   cfg,
		flags: f,
		log:   logger.NewFromConfig(cfg.Log),
	}

	r, err := runner.NewFromConfig(cfg.Runner, runner.WithLogger(a.log))
	if err != nil {
		return nil, err
	}

	opts := []fetch.Option{fetch.WithLogger(a.log)}
	if f.cookiesPath != "" {
		cookies, err := webutil.LoadCookiesJSON(f.cookiesPath)
		if err != nil {
			return nil, fmt.Errorf("load cookies: %w", err)
		}
		opts = append(opts, fetch.WithCookies(cookies))
	}

	if f.rateLimit || f.redis {
		bucket, err := a.rateLimiter(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, fetch.WithRateLimiter(bucket))
	}

	if a.client, err = fetch.NewFromConfig(cfg.Fetch, r, opts...); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) rateLimiter(ctx context.Context) (*ratelimiter.Bucket, error) {
	var store ratelimiter.Store
	if a.flags.redis {
		rdb, err := redis.Connect(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		store = ratelimiter.NewRedisStore(rdb)
	} else {
		store = ratelimiter.NewMemoryStore(ratelimiter.WithMemoryStoreLogger(a.log))
	}
	return ratelimiter.NewBucket(store, a.cfg.RateLimit)
}

// Sink returns the S3 sink when requested and local storage otherwise.
func (a *app) Sink(ctx context.Context) (storage.Sink, error) {
	if !a.flags.s3 {
		return storage.NewLocalStorage(""), nil
	}
	return s3.New(ctx, a.cfg.S3)
}

func (a *app) Close() {
	if a.rdb == nil {
		return
	}
	if err := a.rdb.Close(); err != nil {
		a.log.Warn("failed to close redis client", logger.Error(err))
	}
}

// readURLs reads one URL per line from path, or from stdin when path is empty or "-".
// Lines are trimmed and deduplicated; blank lines are dropped.
func readURLs(path string, stdin io.Reader) ([]string, error) {
	in := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var lines []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}

	var urls []string
	for _, u := range webutil.UniqueTrimmed(lines) {
		if u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil, errors.New("no urls to process")
	}
	return urls, nil
}

// collectLinks fetches urls and maps each page to the absolute links found in it.
// Pages that failed are left out.
func collectLinks(ctx context.Context, c *fetch.Client, urls []string) (map[string][]string, error) {
	out, err := fetch.Run(ctx, c, urls, func(_ context.Context, _ string, body []byte) ([]string, error) {
		var links []string
		for _, m := range webutil.FindURLs(string(body), true) {
			links = append(links, m.String())
		}
		return webutil.UniqueTrimmed(links), nil
	})
	if err != nil {
		return nil, err
	}

	links := make(map[string][]string, len(urls))
	for i, res := range out.Results {
		if v, ok := res.Get(); ok {
			links[urls[i]] = v
		}
	}
	return links, nil
}
