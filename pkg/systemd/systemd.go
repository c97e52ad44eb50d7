// Package systemd wraps systemctl for enabling and querying units.
package systemd

import (
	"context"

	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/rs/zerolog"
)

// Client enables and queries systemd units through a shell Runner.
type Client struct {
	runner shell.Runner
	logger zerolog.Logger

	// chroot suppresses immediate starts: inside a chroot there is no
	// running systemd to talk to, so units are enabled only.
	chroot bool
}

// NewClient creates a systemd client. chroot suppresses start operations.
func NewClient(runner shell.Runner, chroot bool) *Client {
	return &Client{
		runner: runner,
		logger: logging.GetLogger("systemd"),
		chroot: chroot,
	}
}

// EnableSystem enables (and, outside a chroot, starts) system units.
func (c *Client) EnableSystem(ctx context.Context, units []string) error {
	return c.enable(ctx, false, units)
}

// EnableUser enables (and, outside a chroot, starts) user units.
func (c *Client) EnableUser(ctx context.Context, units []string) error {
	return c.enable(ctx, true, units)
}

func (c *Client) enable(ctx context.Context, user bool, units []string) error {
	if len(units) == 0 {
		return nil
	}

	verb := "enable"
	if !c.chroot {
		verb = "enable --now"
	}

	for _, unit := range units {
		args := buildArgs(user, verb, unit)
		name, cmdArgs := sudoWrap(user, args)
		if err := c.runner.Run(ctx, name, cmdArgs...); err != nil {
			return err
		}
		c.logger.Debug().Str("unit", unit).Bool("user", user).Msg("Unit enabled")
	}
	return nil
}

// IsActiveUser reports whether a user unit is active. Query failures
// read as inactive; this is informational only.
func (c *Client) IsActiveUser(ctx context.Context, unit string) bool {
	out, err := c.runner.Output(ctx, "systemctl", "--user", "is-active", unit)
	if err != nil {
		return false
	}
	return out == "active"
}

// DaemonReload reloads the system manager configuration, needed after
// writing unit override files.
func (c *Client) DaemonReload(ctx context.Context) error {
	return c.runner.Run(ctx, "sudo", "systemctl", "daemon-reload")
}

// DaemonReloadUser reloads the user manager configuration.
func (c *Client) DaemonReloadUser(ctx context.Context) error {
	return c.runner.Run(ctx, "systemctl", "--user", "daemon-reload")
}

func buildArgs(user bool, verb, unit string) []string {
	args := []string{"systemctl"}
	if user {
		args = append(args, "--user")
	}
	switch verb {
	case "enable --now":
		args = append(args, "enable", "--now")
	default:
		args = append(args, verb)
	}
	return append(args, unit)
}

// sudoWrap prefixes system-level operations with sudo; user units are
// managed as the invoking user.
func sudoWrap(user bool, args []string) (string, []string) {
	if user {
		return args[0], args[1:]
	}
	return "sudo", args
}
