// Package redis connects to Redis for the shared rate limiter store.
//
// Connect parses the URL, retries the first ping with exponential backoff and
// returns a ready client:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client), ratelimiter.DefaultConfig())
//
// Healthcheck returns a ping probe for readiness checks.
//
// Errors wrap ErrEmptyConnectionURL, ErrFailedToParseRedisConnString,
// ErrRedisNotReady or ErrHealthcheckFailed and can be matched with errors.Is.
package redis
