package pkgmgr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tu "mac-bootstrap/internal/testutil"
)

func TestBrewFormulaQueryAndInstall(t *testing.T) {
	r := tu.NewFakeRunner()
	r.Respond("brew list --formula jq", "jq", nil)
	r.Respond("brew list --formula bat", "", &tu.ExitError{Code: 1})
	b := NewFormulae(r)
	ctx := context.Background()

	ok, err := b.IsInstalled(ctx, "jq")
	if err != nil || !ok {
		t.Fatalf("jq installed = %v, %v", ok, err)
	}
	ok, err = b.IsInstalled(ctx, "bat")
	if err != nil || ok {
		t.Fatalf("bat installed = %v, %v", ok, err)
	}
	if err := b.Install(ctx, "bat"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if r.Count("brew install bat") != 1 {
		t.Fatalf("expected brew install bat, calls: %v", r.Calls())
	}
}

func TestBrewCaskUsesCaskFlag(t *testing.T) {
	r := tu.NewFakeRunner()
	b := NewCasks(r)
	ctx := context.Background()
	if _, err := b.IsInstalled(ctx, "iterm2"); err != nil {
		t.Fatal(err)
	}
	if err := b.Install(ctx, "iterm2"); err != nil {
		t.Fatal(err)
	}
	calls := strings.Join(r.Calls(), "\n")
	if !strings.Contains(calls, "brew list --cask iterm2") || !strings.Contains(calls, "brew install --cask iterm2") {
		t.Fatalf("unexpected calls:\n%s", calls)
	}
}

func TestBrewQueryHonoursCancellation(t *testing.T) {
	r := tu.NewFakeRunner()
	r.Respond("brew list", "", &tu.ExitError{Code: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFormulae(r).IsInstalled(ctx, "jq"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNpmParsesGlobalTree(t *testing.T) {
	r := tu.NewFakeRunner()
	r.Respond("npm ls -g --depth=0 typescript", `{"dependencies":{"typescript":{"version":"5.6.2"}}}`, nil)
	r.Respond("npm ls -g --depth=0 pnpm", `{}`, &tu.ExitError{Code: 1})
	n := NewNpm(r, "")
	ctx := context.Background()

	if ok, _ := n.IsInstalled(ctx, "typescript"); !ok {
		t.Fatalf("typescript should be installed")
	}
	if ok, _ := n.IsInstalled(ctx, "pnpm"); ok {
		t.Fatalf("pnpm should be missing")
	}
	if err := n.Install(ctx, "pnpm"); err != nil {
		t.Fatal(err)
	}
	if r.Count("npm install -g pnpm --no-fund --no-audit") != 1 {
		t.Fatalf("calls: %v", r.Calls())
	}
}

func TestPipShow(t *testing.T) {
	r := tu.NewFakeRunner()
	r.Respond("pip3 show black", "Name: black", nil)
	r.Respond("pip3 show flake8", "WARNING: Package(s) not found", &tu.ExitError{Code: 1})
	p := NewPip(r, "")
	ctx := context.Background()
	if ok, _ := p.IsInstalled(ctx, "black"); !ok {
		t.Fatalf("black should be installed")
	}
	if ok, _ := p.IsInstalled(ctx, "flake8"); ok {
		t.Fatalf("flake8 should be missing")
	}
}

func TestHomebrewLocatesPrefixAndActivates(t *testing.T) {
	prefix := t.TempDir()
	if err := os.WriteFile(filepath.Join(prefix, "brew"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	defer tu.WithEnv(t, "PATH", "/usr/bin")()

	h := NewHomebrew(tu.NewFakeRunner(), "https://example.invalid/install.sh", []string{prefix}, "")
	ok, err := h.IsInstalled(context.Background(), "homebrew")
	if err != nil || !ok {
		t.Fatalf("IsInstalled = %v, %v", ok, err)
	}
	if !strings.HasPrefix(os.Getenv("PATH"), prefix+string(os.PathListSeparator)) {
		t.Fatalf("PATH not extended: %s", os.Getenv("PATH"))
	}
}

func TestHomebrewInstallWritesShellenv(t *testing.T) {
	prefix := t.TempDir()
	profile := filepath.Join(t.TempDir(), ".zprofile")
	defer tu.WithEnv(t, "PATH", "/usr/bin")()

	r := tu.NewFakeRunner()
	r.Handle("/bin/bash -c", func([]string) (string, error) {
		return "", os.WriteFile(filepath.Join(prefix, "brew"), []byte("#!/bin/sh\n"), 0o755)
	})
	h := NewHomebrew(r, "https://example.invalid/install.sh", []string{prefix}, profile)

	if ok, _ := h.IsInstalled(context.Background(), ""); ok {
		t.Fatalf("brew should be missing before install")
	}
	if err := h.Install(context.Background(), ""); err != nil {
		t.Fatalf("Install: %v", err)
	}
	raw, err := os.ReadFile(profile)
	if err != nil {
		t.Fatal(err)
	}
	want := `eval "$(` + filepath.Join(prefix, "brew") + ` shellenv)"`
	if strings.TrimSpace(string(raw)) != want {
		t.Fatalf("profile = %q, want %q", raw, want)
	}
}
