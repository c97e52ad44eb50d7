package pacman

import (
	"context"
	"os"
	"strings"

	"github.com/hyprstrap/hyprstrap/pkg/config"
	"github.com/hyprstrap/hyprstrap/pkg/errors"
)

// RegisterRepo makes the third-party repository available to pacman.
// If the marker is already present in pacman.conf only the index is
// refreshed. Every failure here is fatal: later steps install from this
// repository.
func (c *Client) RegisterRepo(ctx context.Context, repo config.Repo) (OpResult, error) {
	registered, err := repoRegistered(repo)
	if err != nil {
		return OpResult{Name: repo.Name}, err
	}

	if registered {
		c.logger.Info().Str("repo", repo.Name).Msg("Repository already registered, refreshing index")
		if err := c.Refresh(ctx); err != nil {
			return OpResult{Name: repo.Name}, err
		}
		return OpResult{Name: repo.Name, Status: StatusSkippedMissing}, nil
	}

	if err := c.importKey(ctx, repo); err != nil {
		return OpResult{Name: repo.Name}, err
	}

	// Keyring and mirrorlist bootstrap packages come straight from
	// fixed URLs; the repository itself is not usable yet.
	if err := c.runner.Run(ctx, "sudo", "pacman", "-U", "--noconfirm", repo.KeyringURL, repo.MirrorlistURL); err != nil {
		return OpResult{Name: repo.Name},
			errors.Wrap(err, errors.ErrRepoRegister, "failed to install repository bootstrap packages")
	}

	if err := c.appendRepoBlock(ctx, repo); err != nil {
		return OpResult{Name: repo.Name}, err
	}

	if err := c.Refresh(ctx); err != nil {
		return OpResult{Name: repo.Name}, err
	}

	return OpResult{Name: repo.Name, Status: StatusSucceeded}, nil
}

func (c *Client) importKey(ctx context.Context, repo config.Repo) error {
	if err := c.runner.Run(ctx, "sudo", "pacman-key", "--recv-key", repo.Key, "--keyserver", repo.Keyserver); err != nil {
		return errors.Wrapf(err, errors.ErrKeyImport, "failed to receive signing key %s", repo.Key)
	}
	if err := c.runner.Run(ctx, "sudo", "pacman-key", "--lsign-key", repo.Key); err != nil {
		return errors.Wrapf(err, errors.ErrKeyImport, "failed to locally sign key %s", repo.Key)
	}
	return nil
}

// appendRepoBlock feeds the block to tee on stdin. Quoting it into a
// shell script would mangle newlines.
func (c *Client) appendRepoBlock(ctx context.Context, repo config.Repo) error {
	block := RepoBlock(repo)
	if err := c.runner.RunInput(ctx, block, "sudo", "tee", "-a", repo.PacmanConf); err != nil {
		return errors.Wrapf(err, errors.ErrRepoRegister, "failed to append repository block to %s", repo.PacmanConf)
	}
	return nil
}

// RepoBlock renders the pacman.conf registration block for a repository.
func RepoBlock(repo config.Repo) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(repo.Marker)
	b.WriteString("\n")
	b.WriteString("Include = " + repo.Include + "\n")
	return b.String()
}

// repoRegistered detects prior registration via the marker string in
// pacman.conf. A missing conf file reads as not registered rather than
// an error; appending will create it.
func repoRegistered(repo config.Repo) (bool, error) {
	data, err := os.ReadFile(repo.PacmanConf)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrRepoRegister, "cannot read %s", repo.PacmanConf)
	}
	return strings.Contains(string(data), repo.Marker), nil
}
