// Package install runs the bootstrap pipeline: a fixed sequence of
// steps from privilege guard to summary report. Steps either abort the
// run (repository registration, dotfile fetch, template rendering) or
// degrade with a warning (missing subtrees, single package failures).
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/hyprstrap/hyprstrap/pkg/aur"
	"github.com/hyprstrap/hyprstrap/pkg/config"
	"github.com/hyprstrap/hyprstrap/pkg/deploy"
	"github.com/hyprstrap/hyprstrap/pkg/drivers"
	"github.com/hyprstrap/hyprstrap/pkg/extras"
	"github.com/hyprstrap/hyprstrap/pkg/fetch"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/pacman"
	"github.com/hyprstrap/hyprstrap/pkg/paths"
	"github.com/hyprstrap/hyprstrap/pkg/report"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/systemd"
	"github.com/hyprstrap/hyprstrap/pkg/templates"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
	"github.com/hyprstrap/hyprstrap/pkg/wallpaper"
	"github.com/hyprstrap/hyprstrap/pkg/workspace"
)

// StepStatus is the outcome class of one pipeline step.
type StepStatus int

const (
	// StatusDone means the step completed in full.
	StatusDone StepStatus = iota
	// StatusSkipped means the step had nothing to do.
	StatusSkipped
	// StatusDegraded means the step completed with warnings.
	StatusDegraded
	// StatusFailed means the step aborted the run.
	StatusFailed
)

func (s StepStatus) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// StepResult is one step's aggregated outcome, fed to the summary.
type StepResult struct {
	Name   string
	Status StepStatus
	Detail string
	Err    error
}

// Pipeline wires every step behind one Run call.
type Pipeline struct {
	cfg       *config.Config
	paths     *paths.Paths
	runner    shell.Runner
	confirmer ui.Confirmer
	printer   *ui.Printer
	out       io.Writer
	logger    zerolog.Logger

	pacman  *pacman.Client
	systemd *systemd.Client
	driver  *drivers.Installer

	// euid is read through a function so the guard is testable.
	euid func() int
}

// New assembles a Pipeline on the given collaborators. out receives the
// final report.
func New(cfg *config.Config, p *paths.Paths, runner shell.Runner, confirmer ui.Confirmer, out io.Writer) *Pipeline {
	printer := ui.NewPrinter(out)
	pac := pacman.NewClient(runner)
	return &Pipeline{
		cfg:       cfg,
		paths:     p,
		runner:    runner,
		confirmer: confirmer,
		printer:   printer,
		out:       out,
		logger:    logging.GetLogger("install"),
		pacman:    pac,
		systemd:   systemd.NewClient(runner, paths.InChroot()),
		driver:    drivers.NewInstaller(runner, pac, confirmer),
		euid:      os.Geteuid,
	}
}

// Run executes the full sequence. The scratch workspace is removed on
// every exit path, including signals. A returned error means the run
// aborted; steps that merely degraded are reported in the summary.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := Preflight(p.euid()); err != nil {
		return err
	}

	ws, err := workspace.Create(p.paths.Scratch())
	if err != nil {
		return err
	}
	defer ws.Cleanup()
	ws.RemoveOnSignal()

	var steps []StepResult
	var driverResult drivers.Result
	var trees fetch.Trees
	var deployed deploy.Result

	run := func(name string, fn func() (StepResult, error)) error {
		p.printer.Section(name)
		res, err := fn()
		res.Name = name
		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			steps = append(steps, res)
			return err
		}
		steps = append(steps, res)
		return nil
	}

	if err := run("Repository", func() (StepResult, error) { return p.stepRepository(ctx) }); err != nil {
		return err
	}
	if err := run("Hardware", func() (StepResult, error) {
		res, dr, err := p.stepHardware(ctx)
		driverResult = dr
		return res, err
	}); err != nil {
		return err
	}
	if err := run("Packages", func() (StepResult, error) { return p.stepPackages(ctx) }); err != nil {
		return err
	}
	if err := run("AUR packages", func() (StepResult, error) { return p.stepAUR(ctx, ws.Root()) }); err != nil {
		return err
	}
	if err := run("Dotfiles", func() (StepResult, error) {
		res, tr, err := p.stepFetch(ctx, ws.Root())
		trees = tr
		return res, err
	}); err != nil {
		return err
	}
	if err := run("Configuration", func() (StepResult, error) {
		res, dep, err := p.stepDeploy(trees, driverResult)
		deployed = dep
		return res, err
	}); err != nil {
		return err
	}
	if err := run("Wallpapers", func() (StepResult, error) { return p.stepWallpapers(trees) }); err != nil {
		return err
	}
	if err := run("Extras", func() (StepResult, error) { return p.stepExtras(ctx) }); err != nil {
		return err
	}

	return p.renderReport(steps, driverResult, deployed)
}

func (p *Pipeline) stepRepository(ctx context.Context) (StepResult, error) {
	op, err := p.pacman.RegisterRepo(ctx, p.cfg.Repo)
	if err != nil {
		return StepResult{}, err
	}
	detail := fmt.Sprintf("%s registered", p.cfg.Repo.Name)
	if op.Status == pacman.StatusSkippedMissing {
		detail = fmt.Sprintf("%s already registered, index refreshed", p.cfg.Repo.Name)
	}
	return StepResult{Status: StatusDone, Detail: detail}, nil
}

// stepHardware installs the network/bluetooth set, enables the system
// units and runs the gated driver branch.
func (p *Pipeline) stepHardware(ctx context.Context) (StepResult, drivers.Result, error) {
	if err := p.pacman.Install(ctx, p.cfg.Packages.Network); err != nil {
		return StepResult{}, drivers.Result{}, err
	}
	if err := p.systemd.EnableSystem(ctx, p.cfg.Services.System); err != nil {
		return StepResult{}, drivers.Result{}, err
	}

	dr, err := p.driver.MaybeInstall(ctx, p.cfg.Packages.Nvidia)
	if err != nil {
		return StepResult{}, drivers.Result{}, err
	}

	detail := "NVIDIA driver declined"
	if dr.Installed {
		detail = "NVIDIA driver installed"
	}
	return StepResult{Status: StatusDone, Detail: detail}, dr, nil
}

func (p *Pipeline) stepPackages(ctx context.Context) (StepResult, error) {
	degraded := 0
	for _, op := range p.pacman.RemoveIfPresent(ctx, p.cfg.Packages.AudioConflicts) {
		if op.Status == pacman.StatusFailedNonFatal {
			p.printer.Warnf("could not remove conflicting package %s", op.Name)
			degraded++
		}
	}

	if err := p.pacman.Install(ctx, p.cfg.Packages.Desktop); err != nil {
		return StepResult{}, err
	}
	if err := p.pacman.Install(ctx, p.cfg.Packages.Audio); err != nil {
		return StepResult{}, err
	}

	if pkg := p.cfg.Packages.Opportunistic; pkg != "" {
		if op := p.pacman.InstallOpportunistic(ctx, pkg); op.Status != pacman.StatusSucceeded {
			p.printer.Warnf("%s not found in the primary index, will retry via the AUR helper", pkg)
			degraded++
		}
	}

	if err := p.systemd.EnableUser(ctx, p.cfg.Services.AudioUser); err != nil {
		p.printer.Warnf("could not enable audio user units: %v", err)
		degraded++
	}

	status := StatusDone
	if degraded > 0 {
		status = StatusDegraded
	}
	total := len(p.cfg.Packages.Desktop) + len(p.cfg.Packages.Audio)
	return StepResult{Status: status, Detail: fmt.Sprintf("%d packages installed", total)}, nil
}

// stepAUR bootstraps the helper when missing and installs the AUR set
// one package at a time. Nothing here aborts the run.
func (p *Pipeline) stepAUR(ctx context.Context, workspaceRoot string) (StepResult, error) {
	if len(p.cfg.Packages.AUR) == 0 {
		return StepResult{Status: StatusSkipped, Detail: "no AUR packages configured"}, nil
	}

	client := aur.NewClient(p.runner)
	buildDir := filepath.Join(workspaceRoot, "helper-build")
	if _, err := client.EnsureHelper(ctx, buildDir); err != nil {
		p.printer.Warnf("could not bootstrap %s, skipping AUR packages: %v", aur.Helper, err)
		return StepResult{Status: StatusDegraded, Detail: "helper bootstrap failed"}, nil
	}

	failed := 0
	for _, op := range client.InstallPackages(ctx, p.cfg.Packages.AUR) {
		if op.Status != pacman.StatusSucceeded {
			p.printer.Warnf("AUR package %s failed, continuing", op.Name)
			failed++
		}
	}

	status := StatusDone
	detail := fmt.Sprintf("%d packages installed", len(p.cfg.Packages.AUR)-failed)
	if failed > 0 {
		status = StatusDegraded
		detail = fmt.Sprintf("%d of %d packages failed", failed, len(p.cfg.Packages.AUR))
	}
	return StepResult{Status: status, Detail: detail}, nil
}

func (p *Pipeline) stepFetch(ctx context.Context, workspaceRoot string) (StepResult, fetch.Trees, error) {
	trees, err := fetch.NewFetcher(p.runner).Fetch(ctx, workspaceRoot, p.cfg.Dotfiles)
	if err != nil {
		return StepResult{}, fetch.Trees{}, err
	}
	detail := "primary tree fetched"
	if trees.Secondary != "" {
		detail = "primary and secondary trees fetched"
	}
	return StepResult{Status: StatusDone, Detail: detail}, trees, nil
}

func (p *Pipeline) stepDeploy(trees fetch.Trees, dr drivers.Result) (StepResult, deploy.Result, error) {
	opts := templates.Options{
		Driver:        templates.DriverNone,
		WallpaperPath: p.paths.DefaultWallpaperPath(),
		WaybarTheme:   p.cfg.WaybarTheme,
	}
	if dr.Installed {
		opts.Driver = templates.DriverNvidia
	}

	result, err := deploy.NewDeployer(p.paths, p.printer).Deploy(trees, p.cfg.Deploy.Entries, opts)
	if err != nil {
		return StepResult{}, result, err
	}

	missing := 0
	for _, entry := range result.Entries {
		if entry.Status != deploy.EntryDeployed {
			missing++
		}
	}
	status := StatusDone
	detail := fmt.Sprintf("%d entries deployed, %d generated", len(result.Entries)-missing, len(result.Generated))
	if missing > 0 {
		status = StatusDegraded
	}
	return StepResult{Status: status, Detail: detail}, result, nil
}

func (p *Pipeline) stepWallpapers(trees fetch.Trees) (StepResult, error) {
	result, err := wallpaper.Install(p.paths, p.printer, trees)
	if err != nil {
		return StepResult{}, err
	}
	switch {
	case result.Missing:
		return StepResult{Status: StatusDegraded, Detail: "no images found"}, nil
	case result.Linked:
		return StepResult{Status: StatusDone, Detail: fmt.Sprintf("%d copied, default linked to a substitute", result.Copied)}, nil
	}
	return StepResult{Status: StatusDone, Detail: fmt.Sprintf("%d copied", result.Copied)}, nil
}

// stepExtras runs the independent post-install units. Failures here
// degrade, they never abort.
func (p *Pipeline) stepExtras(ctx context.Context) (StepResult, error) {
	degraded := 0

	username, err := paths.CurrentUsername()
	if err != nil {
		p.printer.Warnf("skipping auto-login: %v", err)
		degraded++
	} else {
		auto := extras.NewAutoLogin(p.runner, p.systemd, p.confirmer)
		enabled, err := auto.Maybe(ctx, username, p.paths.ShellProfile())
		if err != nil {
			p.printer.Warnf("auto-login setup failed: %v", err)
			degraded++
		} else if enabled {
			p.printer.Successf("auto-login enabled for %s", username)
		}
	}

	browser := extras.NewBrowser(p.paths, p.runner, p.systemd)
	if err := browser.Install(ctx, p.cfg.Browser, extras.DefaultSearchEngines()); err != nil {
		p.printer.Warnf("browser bootstrap failed: %v", err)
		degraded++
	}

	for _, st := range extras.VerifyAudio(ctx, p.systemd, p.printer, p.cfg.Services.AudioUser) {
		if st.Err != nil {
			degraded++
		}
	}

	status := StatusDone
	if degraded > 0 {
		status = StatusDegraded
	}
	return StepResult{Status: status}, nil
}

func (p *Pipeline) renderReport(steps []StepResult, dr drivers.Result, deployed deploy.Result) error {
	summary := report.Summary{
		BackupDir:       deployed.BackupDir,
		NvidiaInstalled: dr.Installed,
	}
	for _, step := range steps {
		summary.Steps = append(summary.Steps, report.Step{
			Name:   step.Name,
			Status: step.Status.String(),
			Detail: step.Detail,
		})
		if step.Status == StatusDegraded {
			summary.Degraded = append(summary.Degraded, step.Name)
		}
	}
	return report.NewRenderer(p.out).Render(summary)
}
