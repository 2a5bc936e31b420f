package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/platform"
	"mac-bootstrap/internal/prompt"
	"mac-bootstrap/internal/provision"
	"mac-bootstrap/internal/runner"
)

// debug enables charmbracelet/log diagnostics on stderr.
var debug bool

// configPath names an optional YAML file overlaid on the built-in catalog.
var configPath string

// rootCmd runs the whole provisioning sequence when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "mac-bootstrap",
	Short: "Provision a macOS development workstation",
	Long: "mac-bootstrap installs Homebrew, command-line tools, languages, GUI apps,\n" +
		"Oh My Zsh and Python packages, configures Git, and optionally creates an\n" +
		"SSH key and applies macOS preferences. Safe to run again at any time.",
	Args: cobra.NoArgs,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := config.Load(configPath)
		if err != nil {
			return err
		}
		deps, err := hostDeps()
		if err != nil {
			return err
		}

		logger.Info("Starting macOS development environment setup...")
		seq := &provision.Sequencer{Steps: provision.Plan(cat, deps)}
		report, err := seq.Run(cmd.Context())
		if err != nil {
			return err
		}
		logger.Print("\n" + provision.Summary(cat, report))
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML file overriding parts of the built-in catalog")
}

// hostDeps wires the real runner and prompter for the current user.
func hostDeps() (provision.Deps, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return provision.Deps{}, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return provision.Deps{
		Runner:   runner.New(),
		Prompter: prompt.New(),
		Home:     home,
	}, nil
}

// ExitCode maps a run error to the process exit status.
// A pending manual installer is not a failure. A failed external command
// keeps its own status; anything else exits 1.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, provision.ErrPending):
		return 0
	case errors.Is(err, platform.ErrUnsupported):
		return 1
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) && coded.ExitCode() > 0 {
		return coded.ExitCode()
	}
	return 1
}

// Execute runs the CLI and exits with the status ExitCode assigns.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	var stepErr *provision.StepError
	if err != nil && !errors.Is(err, provision.ErrPending) && !errors.As(err, &stepErr) {
		// step failures were already reported by the sequencer
		logger.Error("%v", err)
	}
	if code := ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
