package provision

import (
	"context"
	"fmt"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
)

// PackageManager is the query/install capability behind every catalog descriptor.
type PackageManager interface {
	IsInstalled(ctx context.Context, name string) (bool, error)
	Install(ctx context.Context, name string) error
}

// Ensure is the idempotent primitive: Install runs only when IsInstalled says no.
func Ensure(ctx context.Context, pm PackageManager, name string) (Outcome, error) {
	installed, err := pm.IsInstalled(ctx, name)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("check %s: %w", name, err)
	}
	if installed {
		logger.Info("%s is already installed", name)
		return OutcomeSatisfied, nil
	}
	logger.Info("Installing %s...", name)
	if err := pm.Install(ctx, name); err != nil {
		return OutcomeFailed, err
	}
	logger.Success("%s installed", name)
	return OutcomeApplied, nil
}

// EnsureSteps turns a descriptor list into one Ensure step per package.
func EnsureSteps(category string, pm PackageManager, pkgs []config.Package, policy Policy) []Step {
	steps := make([]Step, 0, len(pkgs))
	for _, p := range pkgs {
		name := p.Name
		steps = append(steps, Step{
			Name:     name,
			Category: category,
			Policy:   policy,
			Apply: func(ctx context.Context) (Outcome, error) {
				return Ensure(ctx, pm, name)
			},
		})
	}
	return steps
}
