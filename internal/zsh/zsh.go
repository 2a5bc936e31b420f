// Package zsh installs Oh My Zsh, clones its plugins and keeps ~/.zshrc in step
// with the catalog's plugins, aliases and raw lines.
package zsh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/rcfile"
	"mac-bootstrap/internal/runner"
)

// Shell resolves the framework's paths for one home directory.
type Shell struct {
	r    runner.Runner
	home string
	cfg  config.Shell
}

// New returns a Shell for home.
func New(r runner.Runner, home string, cfg config.Shell) *Shell {
	return &Shell{r: r, home: home, cfg: cfg}
}

// FrameworkDir is where Oh My Zsh lives, honoring $ZSH.
func (s *Shell) FrameworkDir() string {
	if dir := os.Getenv("ZSH"); dir != "" {
		return dir
	}
	return filepath.Join(s.home, s.cfg.FrameworkDir)
}

// PluginDir is where custom plugins are cloned, honoring $ZSH_CUSTOM.
func (s *Shell) PluginDir(name string) string {
	custom := os.Getenv("ZSH_CUSTOM")
	if custom == "" {
		custom = filepath.Join(s.FrameworkDir(), "custom")
	}
	return filepath.Join(custom, "plugins", name)
}

// RCPath is the user's ~/.zshrc.
func (s *Shell) RCPath() string { return filepath.Join(s.home, ".zshrc") }

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FrameworkInstalled reports whether the framework directory exists.
func (s *Shell) FrameworkInstalled() bool { return isDir(s.FrameworkDir()) }

// InstallFramework runs the unattended installer, which neither switches
// shells nor starts a new one.
func (s *Shell) InstallFramework(ctx context.Context) error {
	script := fmt.Sprintf(`sh -c "$(curl -fsSL %s)" "" --unattended`, s.cfg.FrameworkURL)
	if err := s.r.Run(ctx, "/bin/sh", "-c", script); err != nil {
		return fmt.Errorf("oh-my-zsh installer: %w", err)
	}
	return nil
}

// PluginInstalled reports whether plugin name has been cloned.
func (s *Shell) PluginInstalled(name string) bool { return isDir(s.PluginDir(name)) }

// ClonePlugin shallow-clones a plugin repository into the custom plugin directory.
func (s *Shell) ClonePlugin(ctx context.Context, p config.Plugin) error {
	return s.r.Run(ctx, "git", "clone", "--depth", "1", p.Repo, s.PluginDir(p.Name))
}

var pluginsLine = regexp.MustCompile(`(?m)^plugins=\(([^)]*)\)`)

// EnablePlugins makes sure every name appears in the plugins=(...) line of ~/.zshrc,
// appending a new line when there is none. Returns the names it added.
func (s *Shell) EnablePlugins(names []string) ([]string, error) {
	path := s.RCPath()
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := string(raw)

	m := pluginsLine.FindStringSubmatchIndex(text)
	if m == nil {
		line := "plugins=(" + strings.Join(append([]string{"git"}, names...), " ") + ")"
		if _, err := rcfile.EnsureLines(path, line); err != nil {
			return nil, err
		}
		return names, nil
	}

	current := strings.Fields(text[m[2]:m[3]])
	have := make(map[string]bool, len(current))
	for _, c := range current {
		have[c] = true
	}
	var added []string
	for _, n := range names {
		if !have[n] {
			current = append(current, n)
			have[n] = true
			added = append(added, n)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}
	updated := text[:m[0]] + "plugins=(" + strings.Join(current, " ") + ")" + text[m[1]:]
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return added, nil
}

// EnsureRC appends the catalog's raw lines and aliases to ~/.zshrc when missing.
func (s *Shell) EnsureRC() (int, error) {
	lines := make([]string, 0, len(s.cfg.RawConfigs)+len(s.cfg.Aliases))
	for _, raw := range s.cfg.RawConfigs {
		lines = append(lines, strings.Split(raw, "\n")...)
	}
	for _, a := range s.cfg.Aliases {
		lines = append(lines, fmt.Sprintf("alias %s=\"%s\"", a.Name, a.Value))
	}
	return rcfile.EnsureLines(s.RCPath(), lines...)
}
