// Package pacman wraps the system package manager: registering the
// third-party repository, refreshing the index, and installing or
// removing package sets.
//
// The binary itself never runs as root (see the preflight guard), so
// every mutating call goes through sudo the way the user would type it.
package pacman

import (
	"context"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/rs/zerolog"
)

// Status classifies the outcome of one best-effort operation. The caller
// decides log severity; nothing in this package swallows errors.
type Status int

const (
	// StatusSucceeded means the operation completed.
	StatusSucceeded Status = iota
	// StatusSkippedMissing means there was nothing to do (package not
	// installed, repo already registered).
	StatusSkippedMissing
	// StatusFailedNonFatal means the operation failed but the run can
	// continue in a degraded state.
	StatusFailedNonFatal
)

// String returns a short human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkippedMissing:
		return "skipped"
	case StatusFailedNonFatal:
		return "failed"
	default:
		return "unknown"
	}
}

// OpResult reports the outcome of one best-effort operation.
type OpResult struct {
	Name   string
	Status Status
	Err    error
}

// Client executes pacman operations through a shell Runner.
type Client struct {
	runner shell.Runner
	logger zerolog.Logger
}

// NewClient creates a pacman client.
func NewClient(runner shell.Runner) *Client {
	return &Client{
		runner: runner,
		logger: logging.GetLogger("pacman"),
	}
}

// Install installs packages with --needed so already-present packages are
// left alone. Failure is fatal to the caller.
func (c *Client) Install(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	args := append([]string{"pacman", "-S", "--needed", "--noconfirm"}, pkgs...)
	if err := c.runner.Run(ctx, "sudo", args...); err != nil {
		return errors.Wrapf(err, errors.ErrPackageInstall, "failed to install %d packages", len(pkgs))
	}
	return nil
}

// InstallOpportunistic tries to install a single package and downgrades
// failure to a non-fatal result: the AUR pass retries it later.
func (c *Client) InstallOpportunistic(ctx context.Context, pkg string) OpResult {
	if pkg == "" {
		return OpResult{Name: pkg, Status: StatusSkippedMissing}
	}
	err := c.runner.Run(ctx, "sudo", "pacman", "-S", "--needed", "--noconfirm", pkg)
	if err != nil {
		c.logger.Warn().Str("package", pkg).Err(err).Msg("Package not available in primary index")
		return OpResult{
			Name:   pkg,
			Status: StatusFailedNonFatal,
			Err:    errors.Wrapf(err, errors.ErrPackageSkipped, "package %q not found in primary index", pkg),
		}
	}
	return OpResult{Name: pkg, Status: StatusSucceeded}
}

// RemoveIfPresent removes each package that is currently installed.
// Packages that are not installed are skipped; removal failures are
// non-fatal. Used to clear the conflicting audio stack before the
// install pass.
func (c *Client) RemoveIfPresent(ctx context.Context, pkgs []string) []OpResult {
	results := make([]OpResult, 0, len(pkgs))
	for _, pkg := range pkgs {
		if _, err := c.runner.Output(ctx, "pacman", "-Qi", pkg); err != nil {
			results = append(results, OpResult{Name: pkg, Status: StatusSkippedMissing})
			continue
		}

		if err := c.runner.Run(ctx, "sudo", "pacman", "-Rns", "--noconfirm", pkg); err != nil {
			c.logger.Warn().Str("package", pkg).Err(err).Msg("Failed to remove conflicting package")
			results = append(results, OpResult{Name: pkg, Status: StatusFailedNonFatal, Err: err})
			continue
		}
		results = append(results, OpResult{Name: pkg, Status: StatusSucceeded})
	}
	return results
}

// Refresh refreshes the package index.
func (c *Client) Refresh(ctx context.Context) error {
	if err := c.runner.Run(ctx, "sudo", "pacman", "-Sy"); err != nil {
		return errors.Wrap(err, errors.ErrRepoRegister, "failed to refresh package index")
	}
	return nil
}
