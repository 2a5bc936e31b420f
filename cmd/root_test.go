package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"mac-bootstrap/internal/platform"
	"mac-bootstrap/internal/provision"
	tu "mac-bootstrap/internal/testutil"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"pending installer", provision.ErrPending, 0},
		{"wrong platform", fmt.Errorf("%w: host reports Linux", platform.ErrUnsupported), 1},
		{"tool exit status", &provision.StepError{Step: "jq", Err: fmt.Errorf("brew install jq: %w", &tu.ExitError{Code: 7})}, 7},
		{"no exit status", &provision.StepError{Step: "Git configuration", Err: errors.New("empty answer for user.name")}, 1},
		{"zero status", &tu.ExitError{Code: 0}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ExitCode(c.err); got != c.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
			}
		})
	}
}

func TestCatalogCommandAppliesOverlay(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("tools: [jq]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"catalog", "--config", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "jq") || strings.Contains(s, "ripgrep") {
		t.Fatalf("tools not replaced:\n%s", s)
	}
	if !strings.Contains(s, "zsh-autosuggestions") {
		t.Fatalf("untouched sections lost:\n%s", s)
	}
}
