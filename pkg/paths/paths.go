// Package paths provides centralized path handling for hyprstrap.
// It implements XDG Base Directory compliance and is the single place
// that knows where the config root, scratch workspace, backup sets and
// wallpaper directory live.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/hyprstrap/hyprstrap/pkg/errors"
)

// Environment variable names
const (
	// EnvChroot suppresses immediate service starts when set (install
	// from a chroot, e.g. during OS installation).
	EnvChroot = "HYPRSTRAP_CHROOT"

	// EnvRuntimeDir decides whether the browser bootstrap can run now
	// or must be deferred to a startup unit.
	EnvRuntimeDir = "XDG_RUNTIME_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names under the config root. These are fixed, not
// user-configurable: the deployed desktop expects them at these names.
const (
	// AppDirName is the directory name for hyprstrap-specific files
	AppDirName = "hyprstrap"

	// ScratchDirName is the scratch workspace directory under the
	// system temp dir.
	ScratchDirName = "hyprstrap-work"

	// BackupDirPrefix prefixes timestamped backup sets under the
	// config root.
	BackupDirPrefix = "backup_"

	// backupTimeFormat gives second granularity, unique per run.
	backupTimeFormat = "20060102_150405"

	// WallpapersDirName is the wallpaper directory under the config root
	WallpapersDirName = "wallpapers"

	// DefaultWallpaper is the filename the generated compositor config
	// points at.
	DefaultWallpaper = "eink.jpg"

	// ProfileFileName is the optional user profile under the app
	// config dir.
	ProfileFileName = "profile.toml"
)

// Paths resolves all filesystem locations for one run.
type Paths struct {
	home       string
	configRoot string
	scratch    string
}

// New resolves paths for the current user. An explicit home overrides
// discovery, which tests use to point everything at a temp dir.
func New(home string) (*Paths, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			home = os.Getenv(EnvHome)
		}
		if home == "" {
			return nil, errors.New(errors.ErrFileAccess,
				"unable to determine home directory: neither os.UserHomeDir() nor HOME are available")
		}
	}

	configRoot := os.Getenv("XDG_CONFIG_HOME")
	if configRoot == "" || !filepath.IsAbs(configRoot) {
		configRoot = filepath.Join(home, ".config")
	}

	return &Paths{
		home:       home,
		configRoot: configRoot,
		scratch:    filepath.Join(os.TempDir(), ScratchDirName),
	}, nil
}

// Home returns the user's home directory.
func (p *Paths) Home() string {
	return p.home
}

// ConfigRoot returns the user's configuration root (~/.config).
func (p *Paths) ConfigRoot() string {
	return p.configRoot
}

// ConfigEntry returns the destination path for a named config subtree.
func (p *Paths) ConfigEntry(name string) string {
	return filepath.Join(p.configRoot, name)
}

// Scratch returns the scratch workspace directory.
func (p *Paths) Scratch() string {
	return p.scratch
}

// ScratchSub returns a named subdirectory of the scratch workspace.
func (p *Paths) ScratchSub(name string) string {
	return filepath.Join(p.scratch, name)
}

// NewBackupDir returns the path for a backup set stamped with the given
// wall-clock time. The directory itself is created lazily by the deployer.
func (p *Paths) NewBackupDir(now time.Time) string {
	return filepath.Join(p.configRoot, BackupDirPrefix+now.Format(backupTimeFormat))
}

// Wallpapers returns the destination wallpaper directory.
func (p *Paths) Wallpapers() string {
	return filepath.Join(p.configRoot, WallpapersDirName)
}

// DefaultWallpaperPath returns the path the generated compositor config
// expects a wallpaper at.
func (p *Paths) DefaultWallpaperPath() string {
	return filepath.Join(p.Wallpapers(), DefaultWallpaper)
}

// LocalBin returns the user's ~/.local/bin directory.
func (p *Paths) LocalBin() string {
	return filepath.Join(p.home, ".local", "bin")
}

// ShellProfile returns the user's ~/.bash_profile.
func (p *Paths) ShellProfile() string {
	return filepath.Join(p.home, ".bash_profile")
}

// ProfilePath returns the optional hyprstrap profile location under the
// XDG config directory.
func ProfilePath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, ProfileFileName)
}

// InChroot reports whether the chroot indicator is set.
func InChroot() bool {
	return os.Getenv(EnvChroot) != ""
}

// HasRuntimeDir reports whether a display-session runtime directory is
// available.
func HasRuntimeDir() bool {
	return os.Getenv(EnvRuntimeDir) != ""
}

// CurrentUsername returns the invoking user's name from the environment.
func CurrentUsername() (string, error) {
	for _, key := range []string{"USER", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	return "", errors.New(errors.ErrInvalidInput, "unable to determine username: USER and LOGNAME are unset")
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path, home string) (string, error) {
	if path == "~" {
		return home, nil
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home == "" {
			return "", fmt.Errorf("cannot expand ~: home directory unknown")
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
