package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Printer writes user-facing message lines. A nil Printer is valid and
// writes to stdout.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) writer() io.Writer {
	if p == nil || p.out == nil {
		return os.Stdout
	}
	return p.out
}

// Section prints a step header.
func (p *Printer) Section(title string) {
	section := pterm.DefaultSection
	section.Writer = p.writer()
	section.Println(title)
}

// Successf prints a green success line.
func (p *Printer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(p.writer(), GetStyle(StyleSuccess).Render("✔ "+fmt.Sprintf(format, args...)))
}

// Warnf prints a yellow warning line. This is the voice of every
// degraded-continue failure.
func (p *Printer) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(p.writer(), GetStyle(StyleWarning).Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Errorf prints a red error line.
func (p *Printer) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(p.writer(), GetStyle(StyleError).Render("✖ "+fmt.Sprintf(format, args...)))
}

// Infof prints a neutral informational line.
func (p *Printer) Infof(format string, args ...interface{}) {
	fmt.Fprintln(p.writer(), GetStyle(StyleInfo).Render(fmt.Sprintf(format, args...)))
}
