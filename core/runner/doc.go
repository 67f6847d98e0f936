// Package runner is the public entry point for batch runs. It ties together the
// retry wrapper, the error ledger, the schedulers and progress reporting behind
// one immutable configuration.
//
// A Runner is built once and validated up front:
//
//	r, err := runner.New(
//		runner.WithConcurrency(20),
//		runner.WithMaxTries(3),
//		runner.WithRetryDelay(time.Second),
//		runner.WithReturnErrors(true),
//	)
//	if err != nil {
//		return err // wraps runner.ErrInvalidConfig
//	}
//
// Jobs are labelled units of work. Run admits them through the bounded
// scheduler; RunAll starts all of them at once:
//
//	out, err := runner.Run(ctx, r, jobs, runner.Total(len(urls)))
//	for _, v := range out.Values() {
//		// present results only
//	}
//	for _, rec := range out.Errors {
//		log.Println(rec.Kind, rec.Label, rec.Err)
//	}
//
// Each job is retried per the configured policy. A job that never succeeds
// leaves an absent result and exactly one ledger record. Any other error
// returned from a job is catastrophic and stops the run.
//
// The ledger is cleared once when a run starts, so Errors and Summary always
// describe the most recent run. Runs on the same Runner are serialised.
//
// Use With to derive a runner with different settings; the original is not
// modified.
package runner
