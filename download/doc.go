// Package download fetches files concurrently and stores them in a storage.Sink.
//
// A Downloader takes a list of URLs and derives a destination for each one from
// the download folder, optional per-URL subfolders and optional per-URL file
// names. Every per-URL parameter is a broadcast.Value: a single value applies to
// all URLs, a sequence must match the URL count. Lengths are checked before any
// folder is created or request is sent.
//
//	client, _ := fetch.New(nil)
//	d, err := download.New(client,
//		download.WithFolder("./images"),
//		download.WithSubfolders(broadcast.Strings([]string{"cats", "dogs"})),
//		download.WithFilenames(broadcast.Strings([]string{"tom", "rex"}), download.AsPrefix("-")),
//	)
//	if err != nil {
//		return err
//	}
//	stats, err := d.Run(ctx, urls)
//
// Files already present in the download folder are skipped, as are files found
// in the optional check folder. Failed downloads are retried by the client's
// runner and recorded in its error ledger; an empty response body is recorded
// once as an empty_body error without retrying.
package download
