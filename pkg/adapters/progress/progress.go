// Package progress provides ports.Progress implementations.
package progress

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/user/grainfx/pkg/ports"
)

// Bar draws a terminal progress bar over the files of a run.
type Bar struct {
	out  io.Writer
	bar  *progressbar.ProgressBar
	done int
}

// New returns a Bar on stderr when it is a terminal, and a Noop otherwise.
func New() ports.Progress {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return Noop{}
	}
	return NewTo(os.Stderr)
}

// NewTo creates a Bar writing to out.
func NewTo(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Start implements ports.Progress.
func (b *Bar) Start(total int, description string) {
	b.done = 0
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(0),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.out, "\n") }),
	)
}

// Advance implements ports.Progress.
func (b *Bar) Advance() {
	if b.bar != nil {
		b.done++
		_ = b.bar.Add(1)
	}
}

// Finish implements ports.Progress.
func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// Done returns the number of steps taken so far.
func (b *Bar) Done() int {
	return b.done
}

// Noop discards progress updates.
type Noop struct{}

func (Noop) Start(int, string) {}
func (Noop) Advance()          {}
func (Noop) Finish()           {}

var (
	_ ports.Progress = (*Bar)(nil)
	_ ports.Progress = Noop{}
)
