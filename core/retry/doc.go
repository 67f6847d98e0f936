// Package retry isolates per-item failures of a batch.
//
// Wrap turns an operation into a scheduler unit that retries failures up to
// Policy.MaxTries attempts with a fixed delay between them. When attempts run
// out, the last error is recorded in the ledger under the unit's label and the
// unit resolves to scheduler.ErrNoResult, so the batch carries on with an
// absent result in that position instead of aborting.
//
//	l := ledger.NewLedger()
//	unit := retry.Wrap(fetch(url), url, retry.Policy{MaxTries: 5, Delay: 2 * time.Second}, l)
//
// The delay is context-aware: cancelling the batch interrupts it and the unit
// returns the context error without touching the ledger. Errors wrapped with
// Permanent are recorded immediately without further attempts.
//
// Wrap never clears the ledger; the runner clears it once per top-level run.
package retry
