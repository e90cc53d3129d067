package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"dat-matcher/core/reconcile"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Bar renders a per-file progress bar and implements reconcile.Observer.
type Bar struct {
	w           io.Writer
	description string
	bar         *progressbar.ProgressBar

	matched    int
	duplicates int
	unmatched  int
	skipped    int
	hashed     uint64
}

// New returns a bar that writes to w. description prefixes the counters, e.g.
// "matching" or "deduplicating".
func New(w io.Writer, description string) *Bar {
	return &Bar{w: w, description: description}
}

// IsTerminal reports whether w is an interactive terminal. Progress output is only
// useful there; redirected output gets the log summary instead.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Start implements reconcile.Observer.
func (b *Bar) Start(total int) {
	b.bar = progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription(b.description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = b.bar.RenderBlank()
}

// Processed implements reconcile.Observer.
func (b *Bar) Processed(rec reconcile.Record) {
	switch rec.Outcome {
	case reconcile.OutcomeMatched, reconcile.OutcomeUnique:
		b.matched++
	case reconcile.OutcomeDuplicate:
		b.duplicates++
	case reconcile.OutcomeUnmatched:
		b.unmatched++
	case reconcile.OutcomeSkippedExisting:
		b.skipped++
	}
	if b.bar == nil {
		return
	}
	b.bar.Describe(b.describe())
	_ = b.bar.Add(1)
}

// AddBytes records n hashed bytes. It is meant as the fingerprint.Hasher progress
// callback, so the description keeps moving while a large file is hashed.
func (b *Bar) AddBytes(n int64) {
	if n <= 0 {
		return
	}
	b.hashed += uint64(n)
	if b.bar == nil {
		return
	}
	b.bar.Describe(b.describe())
}

// Finish implements reconcile.Observer.
func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	_, _ = fmt.Fprintln(b.w)
}

func (b *Bar) describe() string {
	desc := fmt.Sprintf("%s | ok=%d dup=%d unmatched=%d", b.description, b.matched, b.duplicates, b.unmatched)
	if b.skipped > 0 {
		desc += fmt.Sprintf(" skip=%d", b.skipped)
	}
	if b.hashed > 0 {
		desc += " | " + humanize.IBytes(b.hashed)
	}
	return desc
}
