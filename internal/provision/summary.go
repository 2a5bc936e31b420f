package provision

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mac-bootstrap/internal/config"
)

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	summaryBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(0, 1)
	summaryDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Summary renders the closing block: what the machine now has, run counts,
// tolerated failures and next steps.
func Summary(cat *config.Catalog, report *Report) string {
	var b strings.Builder

	b.WriteString(summaryTitle.Render("Setup complete!"))
	b.WriteString("\n\nInstalled and configured:\n")
	for _, bullet := range bullets(cat) {
		fmt.Fprintf(&b, "  • %s\n", bullet)
	}

	fmt.Fprintf(&b, "\n%s\n", summaryDim.Render(fmt.Sprintf(
		"%d installed, %d already present, %d skipped, %d warnings",
		report.Count(OutcomeApplied), report.Count(OutcomeSatisfied),
		report.Count(OutcomeSkipped), report.Count(OutcomeTolerated))))

	if tolerated := report.Tolerated(); len(tolerated) > 0 {
		b.WriteString("\nNeeds attention:\n")
		for _, res := range tolerated {
			fmt.Fprintf(&b, "  • %s (%s): %v\n", res.Step, res.Category, res.Err)
		}
	}

	b.WriteString("\nNext steps:\n")
	b.WriteString("  1. Restart your terminal or run: source ~/.zshrc\n")
	if o, ok := report.Outcome(StepSSHKey); ok && o == OutcomeApplied {
		b.WriteString("  2. Add your SSH public key to GitHub: https://github.com/settings/keys\n")
	} else {
		b.WriteString("  2. Sign in to GitHub: gh auth login\n")
	}

	return summaryBox.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// bullets are the five fixed categories of the summary.
func bullets(cat *config.Catalog) []string {
	return []string{
		"Homebrew and command-line tools (" + names(cat.Tools) + ")",
		"Programming languages (" + names(cat.Languages) + ")",
		"GUI applications (" + names(cat.Apps) + ")",
		"Oh My Zsh with " + pluginNames(cat.Shell.Plugins),
		"Git configuration and Python packages",
	}
}

func names(pkgs []config.Package) string {
	if len(pkgs) == 0 {
		return "none"
	}
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name)
	}
	return strings.Join(out, ", ")
}

func pluginNames(plugins []config.Plugin) string {
	if len(plugins) == 0 {
		return "no extra plugins"
	}
	out := make([]string, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, p.Name)
	}
	return strings.Join(out, " and ")
}
