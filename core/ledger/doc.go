// Package ledger collects the failures of a batch run.
//
// A Ledger is an ordered list of Records, one per unit of work that ran out of
// retries. Each Record carries the error, a contextual label (usually the URL
// the unit worked on) and an error Kind used for grouping.
//
//	l := ledger.NewLedger()
//	l.Record(err, "https://example.com/a.jpg")
//	l.RecordMessage("file size is too low: 0", "https://example.com/b.jpg")
//
//	fmt.Println(l.Summary()) // "http_status: 1, file size is too low: 0: 1"
//
// # Kinds
//
// Kinds form an explicit enumeration instead of runtime type names. Errors can
// declare their own kind by implementing Kinder; New and Wrap build such errors.
// Otherwise KindOf classifies context, network and filesystem errors and falls
// back to KindUnknown. Raw sentinel messages recorded with RecordMessage use the
// message itself as the kind.
//
// All methods are safe for concurrent use.
package ledger
