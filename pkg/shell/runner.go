// Package shell isolates external command invocation behind a small
// interface so every component that shells out (pacman, git, systemctl,
// mkinitcpio) can be exercised in tests without touching the system.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/hyprstrap/hyprstrap/pkg/logging"
)

// Runner executes external commands.
type Runner interface {
	// Run executes a command, streaming output to the terminal.
	Run(ctx context.Context, name string, args ...string) error
	// RunIn executes a command with the given working directory.
	RunIn(ctx context.Context, dir, name string, args ...string) error
	// RunInput executes a command feeding input on stdin. File content
	// destined for privileged paths goes through here (sudo tee) so it
	// never passes through shell quoting.
	RunInput(ctx context.Context, input, name string, args ...string) error
	// Output executes a command and captures its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports whether a program is available on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command with stdio attached to the terminal so
// interactive tools (pacman, makepkg) behave normally.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return r.RunIn(ctx, "", name, args...)
}

// RunIn executes a command in dir with stdio attached to the terminal.
func (r *ExecRunner) RunIn(ctx context.Context, dir, name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// RunInput executes a command with input on stdin. Stdout is discarded
// so tee does not echo file content to the terminal.
func (r *ExecRunner) RunInput(ctx context.Context, input, name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// Output executes a command and returns its combined output, trimmed.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	logging.LogCommand(name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(output)),
			fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return strings.TrimSpace(string(output)), nil
}

// LookPath reports whether a program is available on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
