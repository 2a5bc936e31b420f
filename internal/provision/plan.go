package provision

import (
	"context"
	"fmt"
	"path/filepath"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/gitconfig"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/macos"
	"mac-bootstrap/internal/pkgmgr"
	"mac-bootstrap/internal/platform"
	"mac-bootstrap/internal/prompt"
	"mac-bootstrap/internal/rcfile"
	"mac-bootstrap/internal/runner"
	"mac-bootstrap/internal/sshkey"
	"mac-bootstrap/internal/zsh"
)

// Categories group steps in the report and the check output.
const (
	CategoryPlatform  = "platform"
	CategoryPackages  = "package manager"
	CategoryTools     = "tools"
	CategoryLanguages = "languages"
	CategoryApps      = "apps"
	CategoryReleases  = "releases"
	CategoryShell     = "shell"
	CategoryGit       = "git"
	CategoryPython    = "python"
	CategoryNode      = "node"
	CategorySSH       = "ssh"
	CategoryMacOS     = "macos"
)

// Names of the one-off steps.
const (
	StepPlatform       = "Platform check"
	StepCommandLine    = "Xcode Command Line Tools"
	StepHomebrew       = "Homebrew"
	StepHomebrewUpdate = "Homebrew update"
	StepReleasePath    = "Release bin directory on PATH"
	StepFramework      = "Oh My Zsh"
	StepZshrc          = "zshrc"
	StepGit            = "Git configuration"
	StepSSHKey         = "SSH key"
	StepMacOS          = "macOS preferences"
)

// Deps are the capabilities the plan is built over.
// Nil package managers are filled with the real implementations over Runner.
type Deps struct {
	Runner   runner.Runner
	Prompter prompt.Prompter
	Home     string

	Homebrew PackageManager
	Formulae PackageManager
	Casks    PackageManager
	Releases PackageManager
	Pip      PackageManager
	Npm      PackageManager
}

// ReleaseBinDir is where GitHub release binaries are installed.
func ReleaseBinDir(home string) string { return filepath.Join(home, ".local", "bin") }

func (d Deps) withDefaults(cat *config.Catalog) Deps {
	if d.Homebrew == nil {
		d.Homebrew = pkgmgr.NewHomebrew(d.Runner, cat.Homebrew.InstallURL, cat.Homebrew.Prefixes, filepath.Join(d.Home, ".zprofile"))
	}
	if d.Formulae == nil {
		d.Formulae = pkgmgr.NewFormulae(d.Runner)
	}
	if d.Casks == nil {
		d.Casks = pkgmgr.NewCasks(d.Runner)
	}
	if d.Releases == nil {
		d.Releases = pkgmgr.NewReleases(cat.Releases, ReleaseBinDir(d.Home))
	}
	if d.Pip == nil {
		d.Pip = pkgmgr.NewPip(d.Runner, cat.Python.Installer)
	}
	if d.Npm == nil {
		d.Npm = pkgmgr.NewNpm(d.Runner, cat.Node.Installer)
	}
	return d
}

// Plan builds the full provisioning sequence for cat, in its fixed order.
func Plan(cat *config.Catalog, deps Deps) []Step {
	d := deps.withDefaults(cat)
	shell := zsh.New(d.Runner, d.Home, cat.Shell)

	steps := []Step{
		{
			Name: StepPlatform, Category: CategoryPlatform, Policy: AbortOnFailure,
			Apply: func(ctx context.Context) (Outcome, error) {
				logger.Info("Checking platform...")
				if err := platform.Guard(ctx, d.Runner, cat.Platform); err != nil {
					return OutcomeFailed, err
				}
				return OutcomeSatisfied, nil
			},
		},
		{
			Name: StepCommandLine, Category: CategoryPlatform, Policy: AbortOnFailure,
			Apply: func(ctx context.Context) (Outcome, error) {
				pending, err := platform.CommandLineTools(ctx, d.Runner)
				if err != nil {
					return OutcomeFailed, err
				}
				if pending {
					logger.Warning("Complete the Xcode Command Line Tools installer, then run this again.")
					return OutcomePending, nil
				}
				logger.Info("Xcode Command Line Tools are already installed")
				return OutcomeSatisfied, nil
			},
		},
		{
			Name: StepHomebrew, Category: CategoryPackages, Policy: AbortOnFailure,
			Apply: func(ctx context.Context) (Outcome, error) {
				return Ensure(ctx, d.Homebrew, StepHomebrew)
			},
		},
		{
			Name: StepHomebrewUpdate, Category: CategoryPackages, Policy: TolerateFailure,
			Apply: func(ctx context.Context) (Outcome, error) {
				logger.Info("Updating Homebrew...")
				if err := d.Runner.Run(ctx, "brew", "update"); err != nil {
					return OutcomeFailed, err
				}
				return OutcomeApplied, nil
			},
		},
	}

	steps = append(steps, EnsureSteps(CategoryTools, d.Formulae, cat.Tools, AbortOnFailure)...)
	steps = append(steps, EnsureSteps(CategoryLanguages, d.Formulae, cat.Languages, AbortOnFailure)...)
	steps = append(steps, EnsureSteps(CategoryApps, d.Casks, cat.Apps, TolerateFailure)...)

	if len(cat.Releases) > 0 {
		names := make([]config.Package, 0, len(cat.Releases))
		for _, r := range cat.Releases {
			names = append(names, config.Package{Name: r.Name})
		}
		steps = append(steps, EnsureSteps(CategoryReleases, d.Releases, names, TolerateFailure)...)
		steps = append(steps, Step{
			Name: StepReleasePath, Category: CategoryReleases, Policy: TolerateFailure,
			Apply: func(ctx context.Context) (Outcome, error) {
				n, err := rcfile.EnsureLines(filepath.Join(d.Home, ".zprofile"), `export PATH="$HOME/.local/bin:$PATH"`)
				return changed(n), err
			},
		})
	}

	steps = append(steps, shellSteps(cat, shell)...)

	steps = append(steps, Step{
		Name: StepGit, Category: CategoryGit, Policy: AbortOnFailure,
		Apply: func(ctx context.Context) (Outcome, error) {
			logger.Info("Configuring Git...")
			if _, err := gitconfig.Configure(ctx, d.Runner, d.Prompter, cat.Git.Defaults); err != nil {
				return OutcomeFailed, err
			}
			logger.Success("Git configured")
			return OutcomeApplied, nil
		},
	})

	steps = append(steps, EnsureSteps(CategoryPython, d.Pip, cat.Python.Packages, AbortOnFailure)...)
	steps = append(steps, EnsureSteps(CategoryNode, d.Npm, cat.Node.Packages, TolerateFailure)...)

	steps = append(steps,
		Step{Name: StepSSHKey, Category: CategorySSH, Policy: TolerateFailure, Apply: sshKeyStep(cat, d)},
		Step{Name: StepMacOS, Category: CategoryMacOS, Policy: TolerateFailure, Apply: macOSStep(cat, d)},
	)
	return steps
}

func shellSteps(cat *config.Catalog, shell *zsh.Shell) []Step {
	steps := []Step{{
		Name: StepFramework, Category: CategoryShell, Policy: AbortOnFailure,
		Apply: func(ctx context.Context) (Outcome, error) {
			if shell.FrameworkInstalled() {
				logger.Info("Oh My Zsh is already installed")
				return OutcomeSatisfied, nil
			}
			logger.Info("Installing Oh My Zsh...")
			if err := shell.InstallFramework(ctx); err != nil {
				return OutcomeFailed, err
			}
			logger.Success("Oh My Zsh installed")
			return OutcomeApplied, nil
		},
	}}

	names := make([]string, 0, len(cat.Shell.Plugins))
	for _, p := range cat.Shell.Plugins {
		names = append(names, p.Name)
		steps = append(steps, Step{
			Name: p.Name, Category: CategoryShell, Policy: AbortOnFailure,
			Apply: func(ctx context.Context) (Outcome, error) {
				if shell.PluginInstalled(p.Name) {
					logger.Info("%s already exists", p.Name)
					return OutcomeSatisfied, nil
				}
				logger.Info("Installing %s...", p.Name)
				if err := shell.ClonePlugin(ctx, p); err != nil {
					return OutcomeFailed, err
				}
				logger.Success("%s installed", p.Name)
				return OutcomeApplied, nil
			},
		})
	}

	steps = append(steps, Step{
		Name: StepZshrc, Category: CategoryShell, Policy: AbortOnFailure,
		Apply: func(ctx context.Context) (Outcome, error) {
			added, err := shell.EnablePlugins(names)
			if err != nil {
				return OutcomeFailed, err
			}
			for _, n := range added {
				logger.Success("Enabled %s in ~/.zshrc", n)
			}
			lines, err := shell.EnsureRC()
			if err != nil {
				return OutcomeFailed, err
			}
			return changed(len(added) + lines), nil
		},
	})
	return steps
}

func sshKeyStep(cat *config.Catalog, d Deps) func(ctx context.Context) (Outcome, error) {
	return func(ctx context.Context) (Outcome, error) {
		yes, err := d.Prompter.Confirm("Would you like to generate a new SSH key for GitHub?")
		if err != nil {
			return OutcomeFailed, err
		}
		if !yes {
			logger.Info("Skipping SSH key generation")
			return OutcomeSkipped, nil
		}
		keyPath := filepath.Join(d.Home, cat.SSH.KeyPath)
		if sshkey.Exists(keyPath) {
			logger.Info("SSH key already exists at %s", keyPath)
			return OutcomeSatisfied, nil
		}
		email, err := d.Prompter.Input("Enter your GitHub email:")
		if err != nil {
			return OutcomeFailed, err
		}
		if email == "" {
			return OutcomeFailed, fmt.Errorf("an email is required to label the key")
		}
		pub, err := sshkey.Generate(keyPath, email)
		if err != nil {
			return OutcomeFailed, err
		}
		if err := sshkey.ConfigureAgent(ctx, d.Runner, d.Home, keyPath); err != nil {
			return OutcomeFailed, err
		}
		logger.Success("SSH key generated at %s", keyPath)
		logger.Info("Add this public key to GitHub (Settings > SSH and GPG keys):")
		logger.Print(pub + "\n")
		return OutcomeApplied, nil
	}
}

func macOSStep(cat *config.Catalog, d Deps) func(ctx context.Context) (Outcome, error) {
	return func(ctx context.Context) (Outcome, error) {
		yes, err := d.Prompter.Confirm("Would you like to apply recommended macOS preferences?")
		if err != nil {
			return OutcomeFailed, err
		}
		if !yes {
			logger.Info("Skipping macOS preferences")
			return OutcomeSkipped, nil
		}
		written, err := macos.Apply(ctx, d.Runner, cat.MacOS.Settings)
		if err != nil {
			return OutcomeFailed, err
		}
		if written == 0 {
			return OutcomeSatisfied, nil
		}
		macos.Restart(ctx, d.Runner, cat.MacOS.Restart)
		logger.Success("macOS preferences applied")
		return OutcomeApplied, nil
	}
}

func changed(n int) Outcome {
	if n > 0 {
		return OutcomeApplied
	}
	return OutcomeSatisfied
}
