package extras

import (
	"context"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/systemd"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

// ServiceStatus is the verification outcome for one user unit.
type ServiceStatus struct {
	Unit   string
	Active bool
	// Err carries the coded inactivity error for inactive units.
	Err error
}

// VerifyAudio checks whether the audio user units are active and
// reports the result. It never fails the run: an inactive unit is
// information for the user, not an error.
func VerifyAudio(ctx context.Context, sysd *systemd.Client, printer *ui.Printer, units []string) []ServiceStatus {
	logger := logging.GetLogger("extras.audio")

	statuses := make([]ServiceStatus, 0, len(units))
	for _, unit := range units {
		status := ServiceStatus{Unit: unit, Active: sysd.IsActiveUser(ctx, unit)}
		if status.Active {
			printer.Successf("%s is active", unit)
		} else {
			status.Err = errors.Newf(errors.ErrServiceInactive, "unit %s is not active", unit)
			printer.Warnf("%s is not active, audio may need a re-login", unit)
			logger.Warn().Str("unit", unit).Msg("audio unit inactive")
		}
		statuses = append(statuses, status)
	}
	return statuses
}
