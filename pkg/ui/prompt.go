package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Confirmer asks the user a yes/no question with a default answer.
// Isolating the terminal-reading concern behind this interface keeps
// every prompting component testable.
type Confirmer interface {
	Confirm(question string, def bool) (bool, error)
}

// ConsoleConfirmer reads answers from an input stream, usually stdin.
type ConsoleConfirmer struct {
	In  io.Reader
	Out io.Writer

	// AssumeYes answers every prompt with yes without asking (--yes).
	AssumeYes bool

	// reader is shared across prompts. A fresh bufio.Reader per call
	// would buffer ahead and swallow input meant for the next one.
	reader *bufio.Reader
}

// NewConsoleConfirmer creates a Confirmer on process stdio.
func NewConsoleConfirmer(assumeYes bool) *ConsoleConfirmer {
	return &ConsoleConfirmer{In: os.Stdin, Out: os.Stdout, AssumeYes: assumeYes}
}

// Confirm prompts with "[y/N]" or "[Y/n]" depending on def and reads one
// line. Empty input takes the default. When stdin is not a terminal the
// default is taken without blocking.
func (c *ConsoleConfirmer) Confirm(question string, def bool) (bool, error) {
	if c.AssumeYes {
		return true, nil
	}

	if f, ok := c.In.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return def, nil
		}
	}

	marker := "[y/N]"
	if def {
		marker = "[Y/n]"
	}
	fmt.Fprintf(c.Out, "%s %s: ", strings.TrimSpace(question), marker)

	if c.reader == nil {
		c.reader = bufio.NewReader(c.In)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return def, fmt.Errorf("failed to read user input: %w", err)
	}

	answer := strings.TrimSpace(strings.ToLower(line))
	switch answer {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ScriptedConfirmer answers prompts from a canned script, for tests and
// profile-driven unattended runs. Questions with no matching entry take
// their default.
type ScriptedConfirmer struct {
	// Answers maps a question substring to its answer.
	Answers map[string]bool

	// Asked records every question in order.
	Asked []string
}

// Confirm answers from the script.
func (s *ScriptedConfirmer) Confirm(question string, def bool) (bool, error) {
	s.Asked = append(s.Asked, question)
	for substr, answer := range s.Answers {
		if strings.Contains(question, substr) {
			return answer, nil
		}
	}
	return def, nil
}
