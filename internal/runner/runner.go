// Package runner executes external programs on behalf of the provisioning steps.
//
// Every host mutation in mac-bootstrap goes through a Runner so the
// sequencer can be exercised against a fake in tests.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mac-bootstrap/internal/logger"
)

// Runner is the command-execution capability used by every step.
type Runner interface {
	// Output runs the command and returns its combined stdout/stderr, trimmed.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Run runs the command attached to the operator's terminal.
	// Long installers (brew, pip) stream their own progress this way.
	Run(ctx context.Context, name string, args ...string) error
	// LookPath resolves a program on PATH.
	LookPath(name string) (string, error)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Exec wired to the process's standard streams.
func New() *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Output runs name with args and captures everything it prints.
// A non-zero exit keeps *exec.ExitError in the returned chain.
func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	logger.Debug("running command", "cmd", commandLine(name, args))
	out, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		logger.Debug("command failed", "cmd", commandLine(name, args), "output", trimmed, "err", err)
		return trimmed, fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return trimmed, nil
}

// Run executes name with args, streaming to the configured writers.
func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	logger.Debug("running command", "cmd", commandLine(name, args))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return nil
}

// LookPath wraps exec.LookPath.
func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
