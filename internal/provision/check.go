package provision

import (
	"context"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/zsh"
)

// CheckRow is the read-only status of one descriptor.
type CheckRow struct {
	Category  string
	Name      string
	Installed bool
	Err       error
}

// Check queries every descriptor without installing anything.
// Without Homebrew every brew-backed descriptor reads as missing.
func Check(ctx context.Context, cat *config.Catalog, deps Deps) []CheckRow {
	d := deps.withDefaults(cat)
	var rows []CheckRow

	query := func(category string, pm PackageManager, name string) {
		ok, err := pm.IsInstalled(ctx, name)
		rows = append(rows, CheckRow{Category: category, Name: name, Installed: ok, Err: err})
	}

	query(CategoryPackages, d.Homebrew, StepHomebrew)
	brew := rows[len(rows)-1].Installed

	groups := []struct {
		category string
		pm       PackageManager
		pkgs     []config.Package
		needBrew bool
	}{
		{CategoryTools, d.Formulae, cat.Tools, true},
		{CategoryLanguages, d.Formulae, cat.Languages, true},
		{CategoryApps, d.Casks, cat.Apps, true},
		{CategoryPython, d.Pip, cat.Python.Packages, false},
		{CategoryNode, d.Npm, cat.Node.Packages, false},
	}
	for _, g := range groups {
		for _, p := range g.pkgs {
			if g.needBrew && !brew {
				rows = append(rows, CheckRow{Category: g.category, Name: p.Name})
				continue
			}
			query(g.category, g.pm, p.Name)
		}
	}
	for _, r := range cat.Releases {
		query(CategoryReleases, d.Releases, r.Name)
	}

	shell := zsh.New(d.Runner, d.Home, cat.Shell)
	rows = append(rows, CheckRow{Category: CategoryShell, Name: StepFramework, Installed: shell.FrameworkInstalled()})
	for _, p := range cat.Shell.Plugins {
		rows = append(rows, CheckRow{Category: CategoryShell, Name: p.Name, Installed: shell.PluginInstalled(p.Name)})
	}
	return rows
}
