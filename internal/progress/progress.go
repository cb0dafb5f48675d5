// Package progress reports transfer progress either as a progress bar on an
// interactive terminal or as plain percentage lines everywhere else.
package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/teemow/drivemenu/internal/terminal"
)

// Reporter receives the progress of a single transfer.
type Reporter interface {
	Start(total int64, description string)
	Update(current int64)
	Finish()
	// Error ends a transfer that failed. The error itself is reported by
	// the caller.
	Error(err error)
}

// New returns a bar reporter when w is a terminal and a line reporter
// otherwise.
func New(w io.Writer) Reporter {
	if terminal.IsTerminal(w) {
		return NewCLIProgress(w)
	}
	return NewLineProgress(w)
}

// Callback adapts r to the (current, total) callbacks of the Drive client.
// Start is called on the first update with the total known at that point.
func Callback(r Reporter, description string) func(current, total int64) {
	started := false
	return func(current, total int64) {
		if !started {
			r.Start(total, description)
			started = true
		}
		r.Update(current)
	}
}

// CLIProgress draws a progress bar.
type CLIProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewCLIProgress creates a bar reporter writing to w.
func NewCLIProgress(w io.Writer) *CLIProgress {
	return &CLIProgress{w: w}
}

// Start initializes the progress bar. A total <= 0 renders a spinner.
func (p *CLIProgress) Start(total int64, description string) {
	if total <= 0 {
		total = -1
	}
	w := p.w
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to current.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error leaves the bar where it stopped and moves to a new line.
func (p *CLIProgress) Error(err error) {
	if p.bar == nil {
		return
	}
	p.bar = nil
	fmt.Fprint(p.w, "\n")
}

// LineProgress prints "<description> N%" each time the whole percentage
// changes.
type LineProgress struct {
	w           io.Writer
	description string
	total       int64
	last        int
	started     bool
}

// NewLineProgress creates a line reporter writing to w.
func NewLineProgress(w io.Writer) *LineProgress {
	return &LineProgress{w: w, last: -1}
}

// Start records the total and description.
func (p *LineProgress) Start(total int64, description string) {
	p.total = total
	p.description = description
	p.last = -1
	p.started = true
}

// Update prints the percentage when it has changed. Nothing is printed while
// the total is unknown.
func (p *LineProgress) Update(current int64) {
	if p.total <= 0 {
		return
	}
	pct := int(current * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	p.print(pct)
}

// Finish prints 100% unless it was already printed or Start was never
// called.
func (p *LineProgress) Finish() {
	if !p.started {
		return
	}
	p.print(100)
}

// Error does nothing; every line is already terminated.
func (p *LineProgress) Error(err error) {}

func (p *LineProgress) print(pct int) {
	if pct == p.last {
		return
	}
	p.last = pct
	fmt.Fprintf(p.w, "%s %d%%\n", p.description, pct)
}

// NoOpProgress discards all progress.
type NoOpProgress struct{}

// NewNoOpProgress creates a reporter that does nothing.
func NewNoOpProgress() *NoOpProgress {
	return &NoOpProgress{}
}

func (p *NoOpProgress) Start(total int64, description string) {}
func (p *NoOpProgress) Update(current int64)                  {}
func (p *NoOpProgress) Finish()                               {}
func (p *NoOpProgress) Error(err error)                       {}
