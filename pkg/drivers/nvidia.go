// Package drivers installs the optional NVIDIA driver stack: packages,
// an idempotent kernel-module list patch, a module-options file, and an
// initramfs rebuild.
package drivers

import (
	"context"
	"os"
	"strings"

	"github.com/hyprstrap/hyprstrap/pkg/errors"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/pacman"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
	"github.com/rs/zerolog"
)

// Default system file locations, overridable for tests.
const (
	DefaultMkinitcpioConf = "/etc/mkinitcpio.conf"
	DefaultModprobeFile   = "/etc/modprobe.d/nvidia.conf"
)

// KernelModules are merged into the MODULES line of mkinitcpio.conf.
var KernelModules = []string{"nvidia", "nvidia_modeset", "nvidia_uvm", "nvidia_drm"}

// ModprobeOptions is the fixed content of the module-options file.
const ModprobeOptions = "options nvidia_drm modeset=1 fbdev=1\n"

// Result reports what the driver step actually did. It is threaded
// explicitly through the pipeline: the template renderer and the summary
// report both consume it.
type Result struct {
	// Installed is true when the user accepted the prompt and the
	// driver packages went in.
	Installed bool
	// ModulesPatched is true when mkinitcpio.conf was modified (false
	// on re-runs where the modules are already listed).
	ModulesPatched bool
	// InitramfsRebuilt is true when mkinitcpio ran.
	InitramfsRebuilt bool
}

// Installer drives the optional NVIDIA install.
type Installer struct {
	runner    shell.Runner
	pacman    *pacman.Client
	confirmer ui.Confirmer
	logger    zerolog.Logger

	// MkinitcpioConf and ModprobeFile default to the /etc locations.
	MkinitcpioConf string
	ModprobeFile   string
}

// NewInstaller creates a driver installer.
func NewInstaller(runner shell.Runner, pac *pacman.Client, confirmer ui.Confirmer) *Installer {
	return &Installer{
		runner:         runner,
		pacman:         pac,
		confirmer:      confirmer,
		logger:         logging.GetLogger("drivers"),
		MkinitcpioConf: DefaultMkinitcpioConf,
		ModprobeFile:   DefaultModprobeFile,
	}
}

// MaybeInstall prompts for the NVIDIA driver (default no) and installs
// it on acceptance. Declining returns a zero Result and no error.
func (i *Installer) MaybeInstall(ctx context.Context, packages []string) (Result, error) {
	accepted, err := i.confirmer.Confirm("Install the NVIDIA driver? (nvidia hardware only)", false)
	if err != nil {
		return Result{}, err
	}
	if !accepted {
		i.logger.Info().Msg("NVIDIA driver declined")
		return Result{}, nil
	}

	if err := i.pacman.Install(ctx, packages); err != nil {
		return Result{}, err
	}

	patched, err := i.patchKernelModules(ctx)
	if err != nil {
		return Result{Installed: true}, err
	}

	if err := i.writeModprobeOptions(ctx); err != nil {
		return Result{Installed: true, ModulesPatched: patched}, err
	}

	if err := i.runner.Run(ctx, "sudo", "mkinitcpio", "-P"); err != nil {
		return Result{Installed: true, ModulesPatched: patched},
			errors.Wrap(err, errors.ErrPackageInstall, "initramfs rebuild failed")
	}

	return Result{Installed: true, ModulesPatched: patched, InitramfsRebuilt: true}, nil
}

// patchKernelModules merges the NVIDIA modules into the MODULES line.
// Re-running is a no-op once the modules are present.
func (i *Installer) patchKernelModules(ctx context.Context) (bool, error) {
	data, err := os.ReadFile(i.MkinitcpioConf)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", i.MkinitcpioConf)
	}

	patched, changed := PatchModulesLine(string(data), KernelModules)
	if !changed {
		i.logger.Debug().Msg("Kernel modules already listed, not touching mkinitcpio.conf")
		return false, nil
	}

	// The full conf goes to tee on stdin, never through shell quoting:
	// a mangled mkinitcpio.conf breaks every later initramfs build.
	if err := i.runner.RunInput(ctx, patched, "sudo", "tee", i.MkinitcpioConf); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileWrite, "cannot update %s", i.MkinitcpioConf)
	}
	return true, nil
}

func (i *Installer) writeModprobeOptions(ctx context.Context) error {
	if err := i.runner.RunInput(ctx, ModprobeOptions, "sudo", "tee", i.ModprobeFile); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", i.ModprobeFile)
	}
	return nil
}

// PatchModulesLine adds any missing module names to the MODULES=(...)
// line of an mkinitcpio.conf. It returns the updated content and whether
// anything changed. Lines other than the first uncommented MODULES
// declaration are left untouched.
func PatchModulesLine(content string, modules []string) (string, bool) {
	lines := strings.Split(content, "\n")
	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "MODULES=(") || !strings.HasSuffix(trimmed, ")") {
			continue
		}

		inner := strings.TrimSuffix(strings.TrimPrefix(trimmed, "MODULES=("), ")")
		existing := strings.Fields(inner)

		present := make(map[string]bool, len(existing))
		for _, mod := range existing {
			present[mod] = true
		}

		added := false
		for _, mod := range modules {
			if !present[mod] {
				existing = append(existing, mod)
				present[mod] = true
				added = true
			}
		}
		if !added {
			return content, false
		}

		lines[idx] = "MODULES=(" + strings.Join(existing, " ") + ")"
		return strings.Join(lines, "\n"), true
	}

	// No MODULES line at all: append one.
	suffix := "MODULES=(" + strings.Join(modules, " ") + ")\n"
	if !strings.HasSuffix(content, "\n") && content != "" {
		suffix = "\n" + suffix
	}
	return content + suffix, true
}
