// Package s3 stores downloaded files in Amazon S3 or an S3-compatible service
// (MinIO, Wasabi, DigitalOcean Spaces).
//
// S3Storage implements storage.Sink, so it can be handed to the downloader in
// place of the local filesystem:
//
//	sink, err := s3.New(ctx, s3.S3Config{
//		Bucket:         "scraped-media",
//		Region:         "us-east-1",
//		Endpoint:       "http://localhost:9000", // MinIO
//		ForcePathStyle: true,
//	})
//	if err != nil {
//		return err
//	}
//
//	d, err := download.New(client, download.WithSink(sink))
//
// Object keys are the cleaned sink paths without a leading slash. Exists with
// anyExt lists keys that share the file's stem. S3 has no real directories, so
// the downloader skips folder creation and cleanup for this sink.
//
// Errors are mapped to the storage sentinels (ErrFileNotFound,
// ErrAccessDenied, ErrServiceUnavailable, ...) which carry ledger kinds.
package s3
