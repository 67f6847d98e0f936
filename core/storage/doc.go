// Package storage defines where downloaded files go.
//
// A Sink accepts file bodies under slash-separated paths and answers whether a
// file already exists, optionally ignoring its extension:
//
//	sink := storage.NewLocalStorage("", storage.WithPermissions(0o755, 0o644))
//
//	ok, err := sink.Exists(ctx, "download/cats/1.jpg", true) // matches 1.png too
//	if err == nil && !ok {
//		err = sink.Put(ctx, "download/cats/1.jpg", resp.Body)
//	}
//
// LocalStorage writes through a temporary file and renames it into place, so a
// failed download never leaves a partial file under the final name. It also
// implements DirManager for creating folders up front and removing the ones
// that stayed empty. The S3 sink lives in integration/storage/s3.
//
// Storage errors carry a ledger kind (not_found, permission, timeout, ...) so
// that failed downloads are summarised by cause.
package storage
