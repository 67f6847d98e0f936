// Package fetch runs many HTTP requests under shared web settings.
//
// A Client carries the settings every request shares: headers, cookies, the
// user agent, a connection limit, redirect and keep-alive behaviour, and an
// optional per-host rate limiter. It also owns the runner that retries failed
// requests and records them in the error ledger.
//
//	r, _ := runner.New(runner.WithMaxTries(3), runner.WithReturnErrors(true))
//	c, err := fetch.New(r,
//		fetch.WithUserAgent("Mozilla/5.0 ..."),
//		fetch.WithCookies(cookies),
//		fetch.WithConnectionsLimit(10),
//	)
//	if err != nil {
//		return err
//	}
//
//	out, err := fetch.Run(ctx, c, urls, func(ctx context.Context, url string, body []byte) (string, error) {
//		return extractTitle(body)
//	})
//
// Run starts one job per URL at once; the connection limit, not the runner's
// concurrency, caps how many requests are in flight. Responses with a status
// of 400 or above fail with a *StatusError, which the ledger files under
// http_status (or rate_limited for 429). The callback runs inside the retry
// loop, so an error from it retries the request.
package fetch
