// Package scheduler drives batches of independent units of work to completion.
//
// Two entry points are provided:
//
//   - RunBounded admits units from a lazy sequence with at most N of them in
//     flight. As soon as any unit finishes, its slot goes to the next pending
//     unit, so slow items never hold back a whole "batch".
//   - RunAll starts every unit at once and waits for all of them.
//
// Both return results positionally: results[i] belongs to the i-th submitted
// unit regardless of completion order.
//
// # Failure isolation
//
// A unit that returns ErrNoResult produces an absent Result (OK == false) and
// the batch keeps going. The retry package wraps operations so that exhausted
// retries end this way. Any other error is treated as catastrophic: the batch
// context is cancelled, outstanding units are awaited, and the error is returned.
// A panicking unit is recovered and fails the batch the same way with ErrPanic.
//
//	units := func(yield func(scheduler.Unit[int]) bool) {
//		for _, u := range urls {
//			if !yield(fetchSize(u)) {
//				return
//			}
//		}
//	}
//
//	results, err := scheduler.RunBounded(ctx, units,
//		scheduler.WithLimit(20),
//		scheduler.WithTotal(len(urls)),
//	)
//
// # Progress and memory
//
// RunBounded advances progress on every submission, RunAll on every completion.
// For very large batches RunBounded calls a reclaimer (runtime.GC by default)
// every GC interval submissions; WithGCInterval(0) disables it and WithDiscard
// drops results entirely for fire-and-forget workloads.
//
// # Resource limits
//
// Limiter caps a shared resource used inside units, such as open connections.
// It is configured separately from the scheduler limit; keeping the scheduler
// limit at or below the resource limit avoids queueing at both layers.
package scheduler
