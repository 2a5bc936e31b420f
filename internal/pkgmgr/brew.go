// Package pkgmgr adapts external package managers (Homebrew, pip, npm, GitHub
// releases) to the query/install pair the provisioning sequencer needs.
package pkgmgr

import (
	"context"

	"mac-bootstrap/internal/runner"
)

// Brew manages Homebrew formulae or casks.
type Brew struct {
	r    runner.Runner
	cask bool
}

// NewFormulae returns a Brew over formulae (`brew list --formula`).
func NewFormulae(r runner.Runner) *Brew { return &Brew{r: r} }

// NewCasks returns a Brew over casks (`brew list --cask`).
func NewCasks(r runner.Runner) *Brew { return &Brew{r: r, cask: true} }

func (b *Brew) kindFlag() string {
	if b.cask {
		return "--cask"
	}
	return "--formula"
}

// IsInstalled asks brew whether name is in its installed registry.
// brew exits non-zero for anything it does not have, so any command failure
// reads as "not installed"; only context cancellation is an error.
func (b *Brew) IsInstalled(ctx context.Context, name string) (bool, error) {
	if _, err := b.r.Output(ctx, "brew", "list", b.kindFlag(), name); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	return true, nil
}

// Install runs `brew install [--cask] name`.
func (b *Brew) Install(ctx context.Context, name string) error {
	if b.cask {
		return b.r.Run(ctx, "brew", "install", "--cask", name)
	}
	return b.r.Run(ctx, "brew", "install", name)
}

// Update refreshes Homebrew's formula index.
func (b *Brew) Update(ctx context.Context) error {
	return b.r.Run(ctx, "brew", "update")
}
