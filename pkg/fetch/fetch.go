// Package fetch clones the configured dotfiles trees into the scratch
// workspace. The fetched configuration is load-bearing for every later
// step, so any clone failure is fatal.
package fetch

import (
	"context"
	"path/filepath"

	"github.com/hyprstrap/hyprstrap/pkg/config"
	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/rs/zerolog"
)

// Fetcher clones remote trees with the git command.
type Fetcher struct {
	runner shell.Runner
	logger zerolog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(runner shell.Runner) *Fetcher {
	return &Fetcher{
		runner: runner,
		logger: logging.GetLogger("fetch"),
	}
}

// Trees holds the checkout locations after a successful fetch.
type Trees struct {
	// Primary is the main dotfiles tree.
	Primary string
	// Secondary is the optional theme tree; empty when not configured.
	Secondary string
}

// Fetch clones the configured trees into named subdirectories of
// workspaceRoot.
func (f *Fetcher) Fetch(ctx context.Context, workspaceRoot string, dotfiles config.Dotfiles) (Trees, error) {
	trees := Trees{}

	primary := filepath.Join(workspaceRoot, dotfiles.Primary.Name)
	if err := f.clone(ctx, dotfiles.Primary.URL, primary); err != nil {
		return trees, err
	}
	trees.Primary = primary

	if dotfiles.HasSecondary() {
		secondary := filepath.Join(workspaceRoot, dotfiles.Secondary.Name)
		if err := f.clone(ctx, dotfiles.Secondary.URL, secondary); err != nil {
			return trees, err
		}
		trees.Secondary = secondary
	}

	return trees, nil
}

func (f *Fetcher) clone(ctx context.Context, url, dest string) error {
	f.logger.Info().Str("url", url).Str("dest", dest).Msg("Cloning tree")
	if err := f.runner.Run(ctx, "git", "clone", "--depth", "1", url, dest); err != nil {
		return errors.Wrapf(err, errors.ErrFetchFailed, "git clone of %s failed", url)
	}
	return nil
}
