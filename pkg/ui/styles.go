// Package ui owns everything the user sees on the terminal: the colored
// message lines, the step headers, and the interactive confirmation
// prompts. Styling is centralized here so the rest of the codebase never
// touches escape codes.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Style names used across the codebase.
const (
	StyleHeader  = "Header"
	StyleSuccess = "Success"
	StyleWarning = "Warning"
	StyleError   = "Error"
	StyleInfo    = "Info"
	StyleMuted   = "Muted"
)

var styleRegistry map[string]lipgloss.Style

func init() {
	// Respect NO_COLOR and dumb terminals; lipgloss renders plain text
	// when the profile is Ascii.
	if termenv.EnvColorProfile() == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	styleRegistry = map[string]lipgloss.Style{
		StyleHeader: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "39"}),
		StyleSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"}),
		StyleWarning: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"}),
		StyleError: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "196"}),
		StyleInfo: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "250"}),
		StyleMuted: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "245", Dark: "240"}),
	}
}

// GetStyle returns the style registered under name, or a zero style for
// unknown names so callers never panic on a typo.
func GetStyle(name string) lipgloss.Style {
	if style, ok := styleRegistry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
