// Package gitconfig sets the global git identity and defaults.
package gitconfig

import (
	"context"
	"fmt"

	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/prompt"
	"mac-bootstrap/internal/runner"
)

// Get reads a global key. Unset keys (git exits 1) read as "".
func Get(ctx context.Context, r runner.Runner, key string) (string, error) {
	out, err := r.Output(ctx, "git", "config", "--global", "--get", key)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", nil
	}
	return out, nil
}

// Set writes a global key.
func Set(ctx context.Context, r runner.Runner, key, value string) error {
	if _, err := r.Output(ctx, "git", "config", "--global", key, value); err != nil {
		return fmt.Errorf("git config %s: %w", key, err)
	}
	return nil
}

// identityKeys are prompted for, in order, when unset.
var identityKeys = []struct{ key, question string }{
	{"user.name", "Enter your Git username:"},
	{"user.email", "Enter your Git email:"},
}

// Configure prompts for any unset identity key, then applies every default.
// Defaults are written on every run; the identity is never overwritten.
// Returns how many identity keys were newly set.
func Configure(ctx context.Context, r runner.Runner, p prompt.Prompter, defaults []config.GitSetting) (int, error) {
	set := 0
	for _, id := range identityKeys {
		current, err := Get(ctx, r, id.key)
		if err != nil {
			return set, err
		}
		if current != "" {
			logger.Info("Git %s already set to %s", id.key, current)
			continue
		}
		answer, err := p.Input(id.question)
		if err != nil {
			return set, fmt.Errorf("read %s: %w", id.key, err)
		}
		if answer == "" {
			return set, fmt.Errorf("empty answer for %s", id.key)
		}
		if err := Set(ctx, r, id.key, answer); err != nil {
			return set, err
		}
		set++
	}

	for _, d := range defaults {
		if err := Set(ctx, r, d.Key, d.Value); err != nil {
			return set, err
		}
		logger.Debug("applied git default", "key", d.Key, "value", d.Value)
	}
	return set, nil
}
