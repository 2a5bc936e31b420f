// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ExitError mimics *exec.ExitError closely enough for exit-code mapping.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// ExitCode matches the method on *exec.ExitError.
func (e *ExitError) ExitCode() int { return e.Code }

// Handler answers one faked command. args excludes the program name.
type Handler func(args []string) (string, error)

// FakeRunner records every command and answers from registered handlers.
// Commands with no matching handler succeed with empty output.
type FakeRunner struct {
	mu       sync.Mutex
	calls    []string
	handlers map[string]Handler
	paths    map[string]string
}

// NewFakeRunner returns an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{handlers: map[string]Handler{}, paths: map[string]string{}}
}

// Handle registers h for every command line starting with prefix.
// The longest matching prefix wins.
func (f *FakeRunner) Handle(prefix string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[prefix] = h
}

// Respond registers a fixed answer for prefix.
func (f *FakeRunner) Respond(prefix, out string, err error) {
	f.Handle(prefix, func([]string) (string, error) { return out, err })
}

// SetPath makes LookPath(name) resolve to path.
func (f *FakeRunner) SetPath(name, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths[name] = path
}

// Calls returns the command lines seen so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count reports how many recorded command lines start with prefix.
func (f *FakeRunner) Count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *FakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return f.dispatch(name, args)
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	_, err := f.dispatch(name, args)
	return err
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *FakeRunner) dispatch(name string, args []string) (string, error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))

	f.mu.Lock()
	f.calls = append(f.calls, line)
	var best string
	var h Handler
	for prefix, candidate := range f.handlers {
		if strings.HasPrefix(line, prefix) && len(prefix) >= len(best) {
			best, h = prefix, candidate
		}
	}
	f.mu.Unlock()

	if h == nil {
		return "", nil
	}
	out, err := h(args)
	if err != nil {
		return out, fmt.Errorf("%s: %w", line, err)
	}
	return out, nil
}
