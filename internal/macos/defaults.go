// Package macos applies user preferences through the `defaults` utility.
package macos

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/runner"
)

// Key identifies a setting as domain:key.
func Key(s config.Setting) string { return fmt.Sprintf("%s:%s", s.Domain, s.Key) }

// WriteArgs builds the `defaults write` arguments for s.
func WriteArgs(s config.Setting) []string {
	args := []string{"write", s.Domain, s.Key}
	switch s.Type {
	case "bool":
		return append(args, "-bool", s.Value)
	case "int":
		return append(args, "-int", s.Value)
	case "float":
		return append(args, "-float", s.Value)
	default:
		return append(args, "-string", s.Value)
	}
}

// Matches reports whether current, as printed by `defaults read`, already equals
// the desired value of s. `defaults read` prints booleans as 1/0.
func Matches(s config.Setting, current string) bool {
	current = strings.TrimSpace(current)
	switch s.Type {
	case "bool":
		want, err := strconv.ParseBool(s.Value)
		if err != nil {
			return false
		}
		got, err := strconv.ParseBool(current)
		return err == nil && got == want
	case "int", "float":
		want, err1 := strconv.ParseFloat(s.Value, 64)
		got, err2 := strconv.ParseFloat(current, 64)
		return err1 == nil && err2 == nil && want == got
	default:
		return current == s.Value
	}
}

// Apply writes each setting whose current value differs and returns how many it wrote.
// An unreadable key counts as different.
func Apply(ctx context.Context, r runner.Runner, settings []config.Setting) (int, error) {
	written := 0
	for _, s := range settings {
		key := Key(s)
		if current, err := r.Output(ctx, "defaults", "read", s.Domain, s.Key); err == nil && Matches(s, current) {
			logger.Info("Skipping already applied setting %s = %s", key, s.Value)
			continue
		}
		if _, err := r.Output(ctx, "defaults", WriteArgs(s)...); err != nil {
			return written, fmt.Errorf("apply setting %s: %w", key, err)
		}
		logger.Success("Applied setting %s = %s", key, s.Value)
		written++
	}
	return written, nil
}

// Restart kills the named UI processes so they reload their preferences.
// launchd brings Finder and Dock straight back. A process that is not running is fine.
func Restart(ctx context.Context, r runner.Runner, processes []string) {
	for _, p := range processes {
		if _, err := r.Output(ctx, "killall", p); err != nil {
			logger.Debug("killall failed", "process", p, "err", err)
		}
	}
}
