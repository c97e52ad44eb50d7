// Package deploy moves pre-existing configuration aside into a
// timestamped backup set, copies selected subtrees from the fetched
// dotfiles trees into the user's config root, and writes the generated
// artifacts on top.
package deploy

import (
	"os"
	"path/filepath"
	"time"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/fetch"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/paths"
	"github.com/hyprstrap/hyprstrap/pkg/templates"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
	"github.com/rs/zerolog"
)

// EntryStatus classifies the outcome for one config entry.
type EntryStatus int

const (
	// EntryDeployed means the subtree was copied to the destination.
	EntryDeployed EntryStatus = iota
	// EntryMissing means no source subtree was found; the destination
	// is left absent. Explicitly non-fatal.
	EntryMissing
	// EntryFailed means the copy itself failed.
	EntryFailed
)

// EntryResult reports the outcome for one config entry.
type EntryResult struct {
	Name   string
	Status EntryStatus
	// Source is the resolved source path, empty when missing.
	Source string
	Err    error
}

// Result reports a whole deployment pass.
type Result struct {
	// BackupDir is the backup set location, empty when nothing was
	// displaced.
	BackupDir string
	Entries   []EntryResult
	// Generated lists the artifacts written from templates.
	Generated []string
	// RecordScript is the installed screen-record toggle path.
	RecordScript string
}

// Deployer deploys configuration entries into the config root.
type Deployer struct {
	paths   *paths.Paths
	printer *ui.Printer
	logger  zerolog.Logger

	// Now is injectable so tests control backup-set naming.
	Now func() time.Time
}

// NewDeployer creates a Deployer.
func NewDeployer(p *paths.Paths, printer *ui.Printer) *Deployer {
	return &Deployer{
		paths:   p,
		printer: printer,
		logger:  logging.GetLogger("deploy"),
		Now:     time.Now,
	}
}

// Deploy runs the whole deployment pass: backup, copy, generate.
// Copy misses warn and continue; a template render failure is fatal.
func (d *Deployer) Deploy(trees fetch.Trees, entries []string, opts templates.Options) (Result, error) {
	result := Result{}

	if err := os.MkdirAll(d.paths.ConfigRoot(), 0755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate, "cannot create config root %s", d.paths.ConfigRoot())
	}

	backup := NewBackupSet(d.paths.NewBackupDir(d.Now()))

	for _, name := range entries {
		result.Entries = append(result.Entries, d.deployEntry(backup, trees, name))
	}
	result.BackupDir = backup.Dir()

	recordScript, err := d.installRecordScript(trees)
	if err != nil {
		return result, err
	}
	result.RecordScript = recordScript
	opts.RecordScript = recordScript

	generated, err := d.writeGenerated(opts)
	if err != nil {
		return result, err
	}
	result.Generated = generated

	return result, nil
}

// deployEntry handles one named subtree: displace, resolve, copy.
func (d *Deployer) deployEntry(backup *BackupSet, trees fetch.Trees, name string) EntryResult {
	dest := d.paths.ConfigEntry(name)

	if _, err := os.Lstat(dest); err == nil {
		if err := backup.Move(dest, name); err != nil {
			return EntryResult{Name: name, Status: EntryFailed, Err: err}
		}
		d.logger.Info().Str("entry", name).Msg("Existing config moved to backup")
	}

	source := ResolveSource(trees, name)
	if source == "" {
		d.printer.Warnf("no %q subtree in the fetched dotfiles, skipping", name)
		return EntryResult{
			Name:   name,
			Status: EntryMissing,
			Err:    errors.Newf(errors.ErrConfigMissing, "no %q subtree in the fetched dotfiles", name),
		}
	}

	if err := CopyTree(source, dest); err != nil {
		d.printer.Warnf("failed to deploy %q: %v", name, err)
		return EntryResult{
			Name:   name,
			Status: EntryFailed,
			Source: source,
			Err:    errors.Wrapf(err, errors.ErrFileWrite, "cannot copy %s", source),
		}
	}

	return EntryResult{Name: name, Status: EntryDeployed, Source: source}
}

// ResolveSource finds the source subtree for a config entry. Within each
// tree a nested config/<name> layout is preferred over a top-level
// <name>; the primary tree is preferred over the secondary.
func ResolveSource(trees fetch.Trees, name string) string {
	for _, root := range []string{trees.Primary, trees.Secondary} {
		if root == "" {
			continue
		}
		for _, candidate := range []string{
			filepath.Join(root, "config", name),
			filepath.Join(root, name),
		} {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

// writeGenerated renders the compositor and waybar artifacts and writes
// them unconditionally: template generation always wins over a copied
// variant.
func (d *Deployer) writeGenerated(opts templates.Options) ([]string, error) {
	artifacts := []struct {
		relPath string
		render  func(templates.Options) (string, error)
	}{
		{filepath.Join("hypr", "hyprland.conf"), templates.RenderHyprland},
		{filepath.Join("waybar", "config.jsonc"), templates.RenderWaybarConfig},
		{filepath.Join("waybar", "style.css"), templates.RenderWaybarStyle},
	}

	written := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		content, err := artifact.render(opts)
		if err != nil {
			return written, err
		}

		dest := filepath.Join(d.paths.ConfigRoot(), artifact.relPath)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return written, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(dest))
		}
		if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
			return written, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dest)
		}
		written = append(written, dest)
	}
	return written, nil
}

// installRecordScript puts the screen-record toggle referenced by the
// generated compositor config in place: copied from the fetched tree
// when present, synthesized from the embedded fallback otherwise.
func (d *Deployer) installRecordScript(trees fetch.Trees) (string, error) {
	const scriptName = "record-toggle.sh"
	dest := filepath.Join(d.paths.ConfigEntry("scripts"), scriptName)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "cannot create scripts directory")
	}

	if _, err := os.Stat(dest); err != nil {
		// Not shipped by the tree (the scripts entry would have copied
		// it already): synthesize the fallback.
		if err := os.WriteFile(dest, []byte(templates.FallbackRecordScript()), 0755); err != nil {
			return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dest)
		}
		d.logger.Info().Str("path", dest).Msg("Synthesized fallback record script")
	}

	// The copy phase preserves source modes; the keybinding needs the
	// script executable no matter what the tree shipped.
	if err := os.Chmod(dest, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot mark %s executable", dest)
	}

	return dest, nil
}
