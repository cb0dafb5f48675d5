// Package terminal holds the small pieces of terminal I/O the menus need:
// line prompts, screen clearing and coloured status lines.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// clearSequence moves the cursor home and clears the screen.
const clearSequence = "\033[H\033[2J"

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Prompter reads one line of input per prompt.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// NewPrompter creates a Prompter reading from r and writing prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Prompt writes label and returns the next input line with surrounding
// whitespace removed. io.EOF is returned once input is exhausted.
func (p *Prompter) Prompt(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.w, label)
	}

	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Screen clears the terminal between menus.
type Screen struct {
	w       io.Writer
	enabled bool
}

// NewScreen creates a Screen for w. Clearing is a no-op unless w is a
// terminal.
func NewScreen(w io.Writer) *Screen {
	return &Screen{w: w, enabled: IsTerminal(w)}
}

// NewANSIScreen creates a Screen that writes the clear sequence to w even
// when w is not a terminal.
func NewANSIScreen(w io.Writer) *Screen {
	return &Screen{w: w, enabled: true}
}

// Clear clears the screen and reports whether anything was cleared.
func (s *Screen) Clear() bool {
	if !s.enabled {
		return false
	}
	fmt.Fprint(s.w, clearSequence)
	return true
}

// Printer writes status lines, coloured when the writer is a terminal.
// Success, Error and Warn lines are kept until ReplayStatus or
// DiscardStatus so they survive a screen clear.
type Printer struct {
	w       io.Writer
	success *color.Color
	failure *color.Color
	warning *color.Color
	header  *color.Color
	recent  []statusLine
}

type statusLine struct {
	c    *color.Color
	text string
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{
		w:       w,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		header:  color.New(color.FgCyan, color.Bold),
	}
	if !IsTerminal(w) {
		for _, c := range []*color.Color{p.success, p.failure, p.warning, p.header} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Println writes an uncoloured line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Printf writes uncoloured formatted text.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Success writes a green line.
func (p *Printer) Success(format string, a ...any) {
	p.status(p.success, format, a...)
}

// Error writes a red line.
func (p *Printer) Error(format string, a ...any) {
	p.status(p.failure, format, a...)
}

// Warn writes a yellow line.
func (p *Printer) Warn(format string, a ...any) {
	p.status(p.warning, format, a...)
}

// ReplayStatus writes the status lines kept since the last replay or
// discard again and forgets them.
func (p *Printer) ReplayStatus() {
	for _, l := range p.recent {
		l.c.Fprintln(p.w, l.text)
	}
	p.recent = nil
}

// DiscardStatus forgets the kept status lines.
func (p *Printer) DiscardStatus() {
	p.recent = nil
}

func (p *Printer) status(c *color.Color, format string, a ...any) {
	text := fmt.Sprintf(format, a...)
	c.Fprintln(p.w, text)
	p.recent = append(p.recent, statusLine{c: c, text: text})
}

// Header writes a bold cyan line.
func (p *Printer) Header(format string, a ...any) {
	p.header.Fprintf(p.w, format+"\n", a...)
}
