// Package report renders the end-of-run summary: one row per pipeline
// step plus the post-install notes.
package report

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"

	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

//go:embed notes.md
var notesMarkdown string

// Step is one summary row.
type Step struct {
	Name   string
	Status string
	Detail string
}

// Summary collects everything the final report shows.
type Summary struct {
	Steps []Step

	// BackupDir is the backup directory path, empty when no backup was
	// taken.
	BackupDir string

	// NvidiaInstalled records the driver decision.
	NvidiaInstalled bool

	// Degraded lists the steps that completed with warnings.
	Degraded []string
}

// Renderer writes the summary to a terminal.
type Renderer struct {
	out io.Writer

	// Width bounds the rendered notes, 0 means the default.
	Width int
}

// NewRenderer creates a Renderer on out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render prints the step table, the backup pointer and the notes.
func (r *Renderer) Render(summary Summary) error {
	printer := ui.NewPrinter(r.out)
	printer.Section("Summary")

	data := pterm.TableData{{"Step", "Status", "Detail"}}
	for _, step := range summary.Steps {
		data = append(data, []string{step.Name, step.Status, step.Detail})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render summary table: %w", err)
	}
	fmt.Fprintln(r.out, table)

	if summary.BackupDir != "" {
		printer.Infof("Previous configuration moved to %s", summary.BackupDir)
	}
	if summary.NvidiaInstalled {
		printer.Infof("NVIDIA driver installed, initramfs rebuilt")
	}
	for _, name := range summary.Degraded {
		printer.Warnf("%s completed with warnings, see the log for details", name)
	}

	fmt.Fprint(r.out, r.renderNotes())
	return nil
}

// renderNotes renders the embedded notes through glamour, falling back
// to the raw markdown when the terminal renderer cannot be built.
func (r *Renderer) renderNotes() string {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return notesMarkdown
	}
	rendered, err := renderer.Render(notesMarkdown)
	if err != nil {
		return notesMarkdown
	}
	return rendered
}
