package install

import (
	"github.com/hyprstrap/hyprstrap/pkg/errors"
)

// Preflight rejects an elevated invocation before anything mutates.
// Root breaks the user-scoped paths and the user-unit operations; the
// binary escalates with sudo where it needs to.
func Preflight(euid int) error {
	if euid == 0 {
		return errors.New(errors.ErrRootInvocation,
			"refusing to run as root: run as your regular user, sudo is used where needed")
	}
	return nil
}
