package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyprstrap/hyprstrap/internal/version"
	"github.com/hyprstrap/hyprstrap/pkg/config"
	"github.com/hyprstrap/hyprstrap/pkg/install"
	"github.com/hyprstrap/hyprstrap/pkg/logging"
	"github.com/hyprstrap/hyprstrap/pkg/paths"
	"github.com/hyprstrap/hyprstrap/pkg/shell"
	"github.com/hyprstrap/hyprstrap/pkg/ui"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "hyprstrap",
		Short:   "Bootstrap a Hyprland desktop on an Arch-derived system",
		Long: `hyprstrap registers the Chaotic-AUR repository, installs the desktop
package set, fetches your dotfiles and deploys them with timestamped
backups, then walks through the optional extras (NVIDIA driver,
auto-login, browser bootstrap).

Run it as your regular user; sudo is used where it is needed.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newInstallCmd() *cobra.Command {
	var (
		assumeYes   bool
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Run the full desktop bootstrap",
		Long: `Runs the bootstrap sequence end to end: repository registration,
package installation, dotfile fetch, config deployment with backups,
wallpapers and extras, finishing with a summary report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(profilePath)
			if err != nil {
				return renderError(err)
			}

			p, err := paths.New("")
			if err != nil {
				return renderError(err)
			}

			pipeline := install.New(cfg, p, shell.NewExecRunner(), pickConfirmer(cfg, assumeYes), os.Stdout)
			if err := pipeline.Run(cmd.Context()); err != nil {
				return renderError(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every prompt")
	cmd.Flags().StringVar(&profilePath, "profile", paths.ProfilePath(), "Profile file overriding packages and repos")
	return cmd
}

// pickConfirmer layers the profile's canned answers over the console
// prompt: scripted questions are answered from the profile, the rest
// fall through to the terminal.
func pickConfirmer(cfg *config.Config, assumeYes bool) ui.Confirmer {
	console := ui.NewConsoleConfirmer(assumeYes)
	if len(cfg.PromptAnswers) == 0 {
		return console
	}
	return &profileConfirmer{answers: cfg.PromptAnswers, fallback: console}
}

type profileConfirmer struct {
	answers  map[string]bool
	fallback ui.Confirmer
}

func (p *profileConfirmer) Confirm(question string, def bool) (bool, error) {
	lower := strings.ToLower(question)
	for substr, answer := range p.answers {
		if strings.Contains(lower, strings.ToLower(substr)) {
			return answer, nil
		}
	}
	return p.fallback.Confirm(question, def)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hyprstrap %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// renderError prints the error in the fatal style before handing it back
// to cobra for the exit status.
func renderError(err error) error {
	fmt.Fprintln(os.Stderr, ui.GetStyle(ui.StyleError).Render("✖ "+err.Error()))
	return err
}
