package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/rcfile"
	"mac-bootstrap/internal/runner"
)

// Homebrew installs the package manager itself.
// It satisfies the same query/install pair as the managers it bootstraps.
type Homebrew struct {
	r          runner.Runner
	installURL string
	prefixes   []string
	profile    string // login shell profile receiving `brew shellenv`
}

// NewHomebrew returns a Homebrew bootstrapper.
// prefixes are bin directories probed when brew is not on PATH yet;
// profile is the file that gets the shellenv line (normally ~/.zprofile).
func NewHomebrew(r runner.Runner, installURL string, prefixes []string, profile string) *Homebrew {
	return &Homebrew{r: r, installURL: installURL, prefixes: prefixes, profile: profile}
}

// Locate returns the brew executable, looking on PATH first and then the known prefixes.
func (h *Homebrew) Locate() (string, bool) {
	if p, err := h.r.LookPath("brew"); err == nil {
		return p, true
	}
	for _, prefix := range h.prefixes {
		candidate := filepath.Join(prefix, "brew")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// IsInstalled reports whether brew can be found; the name is ignored.
// A brew found outside PATH is put on PATH so later steps can call it by name.
func (h *Homebrew) IsInstalled(_ context.Context, _ string) (bool, error) {
	brew, ok := h.Locate()
	if !ok {
		return false, nil
	}
	return true, h.activate(brew)
}

// Install runs the official install script, then wires brew into the login profile and PATH.
func (h *Homebrew) Install(ctx context.Context, _ string) error {
	script := fmt.Sprintf(`/bin/bash -c "$(curl -fsSL %s)"`, h.installURL)
	if err := h.r.Run(ctx, "/bin/bash", "-c", script); err != nil {
		return fmt.Errorf("homebrew installer: %w", err)
	}
	brew, ok := h.Locate()
	if !ok {
		return fmt.Errorf("brew not found after install (looked on PATH and in %s)", strings.Join(h.prefixes, ", "))
	}
	if h.profile != "" {
		line := fmt.Sprintf(`eval "$(%s shellenv)"`, brew)
		if _, err := rcfile.EnsureLines(h.profile, line); err != nil {
			return fmt.Errorf("add brew shellenv to %s: %w", h.profile, err)
		}
	}
	return h.activate(brew)
}

func (h *Homebrew) activate(brew string) error {
	dir := filepath.Dir(brew)
	path := os.Getenv("PATH")
	for _, p := range filepath.SplitList(path) {
		if p == dir {
			return nil
		}
	}
	logger.Debug("adding brew to PATH", "dir", dir)
	return os.Setenv("PATH", dir+string(os.PathListSeparator)+path)
}
