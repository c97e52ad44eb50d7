// Package wallpaper installs the wallpaper assets and guarantees the
// default wallpaper name resolves to something, symlinking a substitute
// when the expected file is missing.
package wallpaper

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyprstrap/hyprstrap/pkg/deploy"
	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/fetch"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/paths"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

// imageExtensions are the substitutes considered for a missing default,
// first lexical match wins.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Result reports the wallpaper install outcome.
type Result struct {
	// Copied is the number of files copied into the destination.
	Copied int
	// Linked is true when the default name was symlinked to a
	// substitute image.
	Linked bool
	// Missing is true when no image could be found at all; downstream
	// is degraded, not broken.
	Missing bool
	// Err carries the coded wallpaper error when Missing is set.
	Err error
}

// Install copies wallpapers from the first existing candidate directory
// of the fetched trees into the destination, then enforces the default
// filename postcondition. Per-file copy errors are ignored.
func Install(p *paths.Paths, printer *ui.Printer, trees fetch.Trees) (Result, error) {
	logger := logging.GetLogger("wallpaper")
	result := Result{}

	dest := p.Wallpapers()
	if err := os.MkdirAll(dest, 0755); err != nil {
		return result, errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dest)
	}

	source := sourceDir(trees)
	if source == "" {
		printer.Warnf("no wallpapers directory in the fetched dotfiles")
	} else {
		entries, err := os.ReadDir(source)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				srcPath := filepath.Join(source, entry.Name())
				if err := deploy.CopyTree(srcPath, filepath.Join(dest, entry.Name())); err != nil {
					logger.Warn().Str("file", entry.Name()).Err(err).Msg("Wallpaper copy failed, continuing")
					continue
				}
				result.Copied++
			}
		}
	}

	// Postcondition: the generated compositor config points at the
	// default name; make it resolve.
	defaultPath := p.DefaultWallpaperPath()
	if _, err := os.Lstat(defaultPath); err == nil {
		return result, nil
	}

	substitute := firstImage(dest)
	if substitute == "" {
		printer.Errorf("no wallpaper images found in %s; the compositor will start without one", dest)
		result.Missing = true
		result.Err = errors.Newf(errors.ErrWallpaperMissing, "no wallpaper images found in %s", dest)
		return result, nil
	}

	if err := os.Symlink(substitute, defaultPath); err != nil {
		return result, errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", defaultPath)
	}
	logger.Info().Str("substitute", substitute).Msg("Default wallpaper linked to substitute")
	result.Linked = true
	return result, nil
}

// sourceDir picks the first existing candidate wallpaper directory.
func sourceDir(trees fetch.Trees) string {
	for _, root := range []string{trees.Primary, trees.Secondary} {
		if root == "" {
			continue
		}
		for _, candidate := range []string{
			filepath.Join(root, "wallpapers"),
			filepath.Join(root, "config", "wallpapers"),
		} {
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// firstImage returns the basename of the lexically first image file in
// dir, or "".
func firstImage(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, allowed := range imageExtensions {
			if ext == allowed {
				names = append(names, entry.Name())
				break
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}
