// Package platform checks that the host is the expected operating system and
// that Apple's Command Line Tools are present.
package platform

import (
	"context"
	"errors"
	"fmt"

	"mac-bootstrap/internal/runner"
)

// ErrUnsupported is returned when `uname -s` does not match the expected identifier.
var ErrUnsupported = errors.New("unsupported platform")

// Guard fails with ErrUnsupported unless `uname -s` prints want.
func Guard(ctx context.Context, r runner.Runner, want string) error {
	got, err := r.Output(ctx, "uname", "-s")
	if err != nil {
		return fmt.Errorf("%w: cannot identify host: %v", ErrUnsupported, err)
	}
	if got != want {
		return fmt.Errorf("%w: this script is for %s, host reports %q", ErrUnsupported, want, got)
	}
	return nil
}

// CommandLineTools reports whether Xcode Command Line Tools are installed.
// When they are missing it launches Apple's GUI installer and returns pending=true:
// the operator finishes that installer and re-runs.
func CommandLineTools(ctx context.Context, r runner.Runner) (pending bool, err error) {
	if _, err := r.Output(ctx, "xcode-select", "-p"); err == nil {
		return false, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if _, err := r.Output(ctx, "xcode-select", "--install"); err != nil {
		return false, fmt.Errorf("launch Command Line Tools installer: %w", err)
	}
	return true, nil
}
