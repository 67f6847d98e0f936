// Package progress renders batch progress as a terminal progress bar.
//
// Bar implements scheduler.Progress on top of schollz/progressbar. It is created
// idle and sized when the scheduler calls Start with the expected total; an
// unknown total (-1) renders a spinner with a running count instead.
//
//	bar := progress.New(progress.WithASCII(), progress.WithDescription("downloading"))
//	results, err := scheduler.RunBounded(ctx, units, scheduler.WithProgress(bar))
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

var (
	unicodeTheme = progressbar.Theme{Saucer: "█", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}
	asciiTheme   = progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}
)

// Option configures a Bar.
type Option func(*Bar)

// WithWriter sets the output. Defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(b *Bar) {
		if w != nil {
			b.w = w
		}
	}
}

// WithASCII draws the bar with plain ASCII characters.
func WithASCII() Option {
	return func(b *Bar) {
		b.ascii = true
	}
}

// WithDescription sets the text shown before the bar.
func WithDescription(desc string) Option {
	return func(b *Bar) {
		b.desc = desc
	}
}

// WithThrottle limits how often the bar is redrawn.
func WithThrottle(d time.Duration) Option {
	return func(b *Bar) {
		if d >= 0 {
			b.throttle = d
		}
	}
}

// Bar is a concurrency-safe progress bar.
type Bar struct {
	w        io.Writer
	ascii    bool
	desc     string
	throttle time.Duration

	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	count atomic.Int64
}

// New returns an idle Bar.
func New(opts ...Option) *Bar {
	b := &Bar{
		w:        os.Stderr,
		throttle: 65 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start creates the underlying bar for total items; -1 means unknown.
func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	theme := unicodeTheme
	if b.ascii {
		theme = asciiTheme
	}

	width, isTerm := terminalWidth(b.w)

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetDescription(b.desc),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(b.throttle),
		progressbar.OptionUseANSICodes(isTerm),
	}
	if width > 0 {
		opts = append(opts, progressbar.OptionSetWidth(width))
	}

	b.count.Store(0)
	b.bar = progressbar.NewOptions(total, opts...)
}

// Add advances the bar by n.
func (b *Bar) Add(n int) {
	b.count.Add(int64(n))

	b.mu.Lock()
	bar := b.bar
	b.mu.Unlock()

	if bar != nil {
		_ = bar.Add(n)
	}
}

// Finish completes the bar and moves the cursor to the next line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	fmt.Fprintln(b.w)
	b.bar = nil
}

// Count returns how many items were added since the last Start.
func (b *Bar) Count() int {
	return int(b.count.Load())
}

// terminalWidth sizes the bar to a third of the terminal. Non-terminal writers get the library default.
func terminalWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0, false
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return 0, true
	}
	return min(max(cols/3, 10), 60), true
}
