package download

import (
	"log/slog"

	"github.com/dmitrymomot/parsekit/core/storage"
	"github.com/dmitrymomot/parsekit/pkg/broadcast"
)

// Option configures a Downloader.
type Option func(*Downloader)

// WithSink sets where files are stored. Defaults to a LocalStorage rooted at the working directory.
func WithSink(sink storage.Sink) Option {
	return func(d *Downloader) {
		if sink != nil {
			d.sink = sink
		}
	}
}

// WithFolder sets the parent download folder.
func WithFolder(folder string) Option {
	return func(d *Downloader) {
		d.cfg.Folder = folder
	}
}

// WithKeepEmptyFolders keeps download folders that are still empty after a run.
func WithKeepEmptyFolders() Option {
	return func(d *Downloader) {
		d.cfg.RemoveEmptyFolders = false
	}
}

// WithSubfolders places each file in a subfolder of the download folder.
func WithSubfolders(v broadcast.Value[string]) Option {
	return func(d *Downloader) {
		v = broadcast.Map(v, trimFolder)
		d.subfolders = &v
	}
}

// WithFilenames sets the stored file names. By default a name replaces the
// name taken from the URL and the URL's extension is kept.
func WithFilenames(v broadcast.Value[string], opts ...FilenameOption) Option {
	return func(d *Downloader) {
		d.filenames = &v
		d.naming = naming{sep: "-", keepExt: true}
		for _, opt := range opts {
			opt(&d.naming)
		}
	}
}

// FilenameOption adjusts how WithFilenames names are applied.
type FilenameOption func(*naming)

// AsPrefix joins the name and the URL's file name with sep instead of replacing it.
func AsPrefix(sep string) FilenameOption {
	return func(n *naming) {
		n.asPrefix = true
		n.sep = sep
	}
}

// DropExtension stores files without the URL's extension.
func DropExtension() FilenameOption {
	return func(n *naming) {
		n.keepExt = false
	}
}

// WithCheckFolder sets an additional folder searched for existing files. With
// anyExt, a file with the same name and any extension counts as existing.
func WithCheckFolder(folder string, anyExt bool) Option {
	return func(d *Downloader) {
		d.cfg.CheckFolder = folder
		d.cfg.CheckAnyExtension = anyExt
	}
}

// WithCheckSubfolders sets per-URL subfolders of the check folder.
func WithCheckSubfolders(v broadcast.Value[string]) Option {
	return func(d *Downloader) {
		v = broadcast.Map(v, trimFolder)
		d.checkSubfolders = &v
	}
}

// WithSkipChecking downloads every URL without looking for existing files.
func WithSkipChecking() Option {
	return func(d *Downloader) {
		d.cfg.SkipChecking = true
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}
