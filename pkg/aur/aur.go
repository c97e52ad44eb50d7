// Package aur bootstraps an AUR helper and installs packages through it.
//
// Unlike the repository registrar, everything here is best-effort: a
// desktop without one AUR package is degraded, not broken, so individual
// failures warn and the loop continues.
package aur

import (
	"context"
	"os"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/pacman"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/rs/zerolog"
)

const (
	// Helper is the AUR helper program bootstrapped when missing.
	Helper = "yay"

	// helperRepoURL is the PKGBUILD checkout the helper is built from.
	helperRepoURL = "https://aur.archlinux.org/yay-bin.git"
)

// Client bootstraps and drives the AUR helper.
type Client struct {
	runner shell.Runner
	logger zerolog.Logger
}

// NewClient creates an AUR client.
func NewClient(runner shell.Runner) *Client {
	return &Client{
		runner: runner,
		logger: logging.GetLogger("aur"),
	}
}

// EnsureHelper makes sure the AUR helper is installed, building it from
// its PKGBUILD checkout in buildDir when missing. The build directory is
// removed afterwards either way.
func (c *Client) EnsureHelper(ctx context.Context, buildDir string) (pacman.OpResult, error) {
	if _, err := c.runner.LookPath(Helper); err == nil {
		c.logger.Debug().Str("helper", Helper).Msg("AUR helper already present")
		return pacman.OpResult{Name: Helper, Status: pacman.StatusSkippedMissing}, nil
	}

	defer func() {
		_ = os.RemoveAll(buildDir)
	}()

	if err := c.runner.Run(ctx, "git", "clone", helperRepoURL, buildDir); err != nil {
		return pacman.OpResult{Name: Helper},
			errors.Wrap(err, errors.ErrFetchFailed, "failed to clone AUR helper sources")
	}

	if err := c.runner.RunIn(ctx, buildDir, "makepkg", "-si", "--noconfirm"); err != nil {
		return pacman.OpResult{Name: Helper},
			errors.Wrap(err, errors.ErrPackageInstall, "failed to build AUR helper")
	}

	return pacman.OpResult{Name: Helper, Status: pacman.StatusSucceeded}, nil
}

// InstallPackages installs each package through the helper, one at a
// time. A failure on any single package is recorded and the loop keeps
// going; partial success is acceptable.
func (c *Client) InstallPackages(ctx context.Context, pkgs []string) []pacman.OpResult {
	results := make([]pacman.OpResult, 0, len(pkgs))
	for _, pkg := range pkgs {
		err := c.runner.Run(ctx, Helper, "-S", "--needed", "--noconfirm", pkg)
		if err != nil {
			c.logger.Warn().Str("package", pkg).Err(err).Msg("AUR package failed to install")
			results = append(results, pacman.OpResult{
				Name:   pkg,
				Status: pacman.StatusFailedNonFatal,
				Err:    errors.Wrapf(err, errors.ErrPackageSkipped, "AUR package %q failed", pkg),
			})
			continue
		}
		results = append(results, pacman.OpResult{Name: pkg, Status: pacman.StatusSucceeded})
	}
	return results
}
