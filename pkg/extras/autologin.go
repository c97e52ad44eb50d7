// Package extras holds the optional, order-insensitive post-install
// units: auto-login, the browser bootstrap, and the audio verification.
package extras

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/systemd"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

// DefaultGettyOverride is where the auto-login drop-in lives.
const DefaultGettyOverride = "/etc/systemd/system/getty@tty1.service.d/autologin.conf"

// autostartMarker guards the shell-profile append: a second run finding
// the marker appends nothing.
const autostartMarker = "# hyprstrap: hyprland autostart"

// autostartBlock starts Hyprland on tty1 login.
const autostartBlock = autostartMarker + `
if [ -z "$WAYLAND_DISPLAY" ] && [ "$(tty)" = "/dev/tty1" ]; then
    exec Hyprland
fi
`

// AutoLogin installs the getty auto-login drop-in and the shell-profile
// autostart block.
type AutoLogin struct {
	runner    shell.Runner
	systemd   *systemd.Client
	confirmer ui.Confirmer

	// GettyOverride defaults to the /etc location.
	GettyOverride string
}

// NewAutoLogin creates the auto-login unit.
func NewAutoLogin(runner shell.Runner, sysd *systemd.Client, confirmer ui.Confirmer) *AutoLogin {
	return &AutoLogin{
		runner:        runner,
		systemd:       sysd,
		confirmer:     confirmer,
		GettyOverride: DefaultGettyOverride,
	}
}

// Maybe prompts (default no) and on acceptance writes the getty override
// for username and appends the autostart block to profilePath. Returns
// whether auto-login was enabled.
func (a *AutoLogin) Maybe(ctx context.Context, username, profilePath string) (bool, error) {
	accepted, err := a.confirmer.Confirm("Enable auto-login on tty1?", false)
	if err != nil {
		return false, err
	}
	if !accepted {
		return false, nil
	}

	if err := a.runner.Run(ctx, "sudo", "mkdir", "-p", dirOf(a.GettyOverride)); err != nil {
		return false, errors.Wrap(err, errors.ErrExtraFailed, "cannot create getty drop-in directory")
	}
	// tee takes the override on stdin so $TERM and the newlines reach
	// the file verbatim.
	override := GettyOverrideContent(username)
	if err := a.runner.RunInput(ctx, override, "sudo", "tee", a.GettyOverride); err != nil {
		return false, errors.Wrap(err, errors.ErrExtraFailed, "cannot write getty override")
	}

	if err := a.systemd.DaemonReload(ctx); err != nil {
		return false, errors.Wrap(err, errors.ErrExtraFailed, "daemon-reload after getty override failed")
	}

	if err := AppendOnce(profilePath, autostartMarker, autostartBlock); err != nil {
		return false, err
	}

	logger := logging.GetLogger("extras.autologin")
	logger.Info().Str("user", username).Msg("Auto-login enabled")
	return true, nil
}

// GettyOverrideContent renders the systemd drop-in enabling auto-login
// for username.
func GettyOverrideContent(username string) string {
	return fmt.Sprintf(`[Service]
ExecStart=
ExecStart=-/sbin/agetty --autologin %s --noclear %%I $TERM
`, username)
}

// AppendOnce appends block to path unless marker is already present.
// The file is created when missing. This is what makes re-running the
// whole bootstrap a no-op for text appends.
func AppendOnce(path, marker, block string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	if strings.Contains(string(data), marker) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot open %s", path)
	}
	defer func() { _ = f.Close() }()

	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + "\n" + block); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot append to %s", path)
	}
	return nil
}

func dirOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}
