package download

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/dmitrymomot/parsekit/core/ledger"
	"github.com/dmitrymomot/parsekit/core/logger"
	"github.com/dmitrymomot/parsekit/core/retry"
	"github.com/dmitrymomot/parsekit/core/runner"
	"github.com/dmitrymomot/parsekit/core/storage"
	"github.com/dmitrymomot/parsekit/fetch"
	"github.com/dmitrymomot/parsekit/pkg/broadcast"
	"github.com/dmitrymomot/parsekit/pkg/webutil"
)

type naming struct {
	asPrefix bool
	sep      string
	keepExt  bool
}

// Downloader downloads batches of URLs through a fetch.Client.
type Downloader struct {
	cfg    Config
	client *fetch.Client
	sink   storage.Sink
	logger *slog.Logger

	subfolders      *broadcast.Value[string]
	filenames       *broadcast.Value[string]
	naming          naming
	checkSubfolders *broadcast.Value[string]
}

// Stats summarises one Run.
type Stats struct {
	Downloaded int
	Skipped    int
	Failed     int
	// Errors is set when the client's runner returns errors.
	Errors []ledger.Record
}

// New returns a Downloader built from DefaultConfig. A nil c gets a default client.
func New(c *fetch.Client, opts ...Option) (*Downloader, error) {
	return NewFromConfig(DefaultConfig(), c, opts...)
}

// NewFromConfig returns a Downloader built from cfg and opts.
func NewFromConfig(cfg Config, c *fetch.Client, opts ...Option) (*Downloader, error) {
	if c == nil {
		var err error
		if c, err = fetch.New(nil); err != nil {
			return nil, err
		}
	}

	d := &Downloader{
		cfg:    cfg,
		client: c,
		sink:   storage.NewLocalStorage(""),
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cfg.Folder = trimFolder(d.cfg.Folder)
	d.cfg.CheckFolder = trimFolder(d.cfg.CheckFolder)

	return d, nil
}

// Config returns a copy of the downloader's settings.
func (d *Downloader) Config() Config {
	return d.cfg
}

// Run downloads urls. Empty URLs are skipped. The returned error is non-nil only
// for invalid parameters or a failed run; individual download failures are
// counted in Stats and recorded in the runner's ledger.
func (d *Downloader) Run(ctx context.Context, urls []string) (Stats, error) {
	if err := d.validate(urls); err != nil {
		return Stats{}, err
	}

	dirs := d.dirs()
	if dm, ok := d.sink.(storage.DirManager); ok {
		for _, dir := range dirs {
			if err := dm.MkdirAll(ctx, dir); err != nil {
				return Stats{}, err
			}
		}
	}

	var downloaded, skipped atomic.Int64
	jobs := func(yield func(runner.Job[struct{}]) bool) {
		for i, u := range urls {
			job := runner.Job[struct{}]{
				Label: u,
				Do: func(ctx context.Context) (struct{}, error) {
					saved, err := d.download(ctx, i, u)
					if err != nil {
						return struct{}{}, err
					}
					if saved {
						downloaded.Add(1)
					} else {
						skipped.Add(1)
					}
					return struct{}{}, nil
				},
			}
			if !yield(job) {
				return
			}
		}
	}

	out, err := runner.Run(ctx, d.client.Runner(), iter.Seq[runner.Job[struct{}]](jobs),
		runner.Total(len(urls)), runner.Discard())

	stats := Stats{
		Downloaded: int(downloaded.Load()),
		Skipped:    int(skipped.Load()),
		Errors:     out.Errors,
	}
	stats.Failed = len(urls) - stats.Downloaded - stats.Skipped

	if d.cfg.RemoveEmptyFolders {
		d.cleanup(context.WithoutCancel(ctx), dirs)
	}

	d.logger.InfoContext(ctx, "download finished",
		logger.Count("downloaded", stats.Downloaded),
		logger.Count("skipped", stats.Skipped),
		logger.Count("failed", stats.Failed))

	return stats, err
}

func (d *Downloader) validate(urls []string) error {
	var params []broadcast.Named
	if d.filenames != nil {
		params = append(params, broadcast.Param("names", *d.filenames))
	}
	if d.subfolders != nil {
		params = append(params, broadcast.Param("download subfolders", *d.subfolders))
	}
	if d.checkSubfolders != nil {
		params = append(params, broadcast.Param("check subfolders", *d.checkSubfolders))
	}
	return broadcast.Validate(broadcast.FromSlice(urls), params...)
}

// dirs lists the download subfolders followed by the parent folder.
func (d *Downloader) dirs() []string {
	var dirs []string
	if d.subfolders != nil {
		for sub := range d.subfolders.All() {
			if sub == "" {
				continue
			}
			dir := path.Join(d.cfg.Folder, sub)
			if !slices.Contains(dirs, dir) {
				dirs = append(dirs, dir)
			}
		}
	}
	if d.cfg.Folder != "" {
		dirs = append(dirs, d.cfg.Folder)
	}
	return dirs
}

func (d *Downloader) cleanup(ctx context.Context, dirs []string) {
	dm, ok := d.sink.(storage.DirManager)
	if !ok || len(dirs) == 0 {
		return
	}
	if err := dm.RemoveEmptyDirs(ctx, dirs...); err != nil {
		d.logger.WarnContext(ctx, "failed to remove empty folders", logger.Error(err))
	}
}

// download stores the i-th URL. It reports false when the URL was skipped.
func (d *Downloader) download(ctx context.Context, i int, rawURL string) (bool, error) {
	if rawURL == "" {
		return false, nil
	}

	name := d.filename(i, rawURL)
	if name == "" {
		return false, retry.Permanent(ledger.New(ledger.KindIO, "no file name in url"))
	}

	folder := d.cfg.Folder
	if d.subfolders != nil {
		folder = path.Join(folder, d.subfolders.Get(i))
	}
	dst := path.Join(folder, name)

	if !d.cfg.SkipChecking {
		exists, err := d.exists(ctx, i, folder, name)
		if err != nil {
			return false, err
		}
		if exists {
			d.logger.DebugContext(ctx, "file exists, skipped", logger.Path(dst))
			return false, nil
		}
	}

	resp, err := d.client.Do(ctx, fetch.Request{URL: rawURL})
	if err != nil {
		return false, err
	}
	if resp.StatusCode != http.StatusOK {
		return false, &fetch.StatusError{Method: http.MethodGet, URL: rawURL, Code: resp.StatusCode}
	}
	if len(resp.Body) == 0 {
		return false, retry.Permanent(ledger.New(ledger.KindEmptyBody, fmt.Sprintf("file size is too low: %d", len(resp.Body))))
	}

	if err := d.sink.Put(ctx, dst, bytes.NewReader(resp.Body)); err != nil {
		return false, err
	}
	d.logger.DebugContext(ctx, "file saved", logger.Path(dst), logger.BytesIn(int64(len(resp.Body))))
	return true, nil
}

func (d *Downloader) exists(ctx context.Context, i int, folder, name string) (bool, error) {
	ok, err := d.sink.Exists(ctx, path.Join(folder, name), false)
	if err != nil || ok || d.cfg.CheckFolder == "" {
		return ok, err
	}

	check := d.cfg.CheckFolder
	if d.checkSubfolders != nil {
		check = path.Join(check, d.checkSubfolders.Get(i))
	}
	return d.sink.Exists(ctx, path.Join(check, name), d.cfg.CheckAnyExtension)
}

// filename derives the stored name for the i-th URL.
func (d *Downloader) filename(i int, rawURL string) string {
	name := urlFilename(rawURL)
	if d.filenames == nil {
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	given := d.filenames.Get(i)

	if d.naming.asPrefix {
		name = given + d.naming.sep + stem
	} else {
		name = given
	}
	if d.naming.keepExt {
		name += ext
	}
	return name
}

// urlFilename returns the sanitised last path segment of rawURL without its query.
func urlFilename(rawURL string) string {
	var name string
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	} else {
		name, _, _ = strings.Cut(rawURL, "?")
		name = name[strings.LastIndex(name, "/")+1:]
	}
	if name == "." || name == "/" {
		return ""
	}
	return webutil.SanitizeFilename(name)
}

func trimFolder(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), `./\`)
}
