// Package sshkey creates an ed25519 key pair in OpenSSH format and registers it
// with ssh-agent and the macOS keychain.
package sshkey

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"mac-bootstrap/internal/logger"
	"mac-bootstrap/internal/rcfile"
	"mac-bootstrap/internal/runner"
)

// Exists reports whether a private key is already at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Generate writes a new ed25519 private key to path (0600) and its public half
// to path+".pub" (0644), commenting both with comment. It refuses to overwrite.
// Returns the authorized_keys line of the public key.
func Generate(path, comment string) (string, error) {
	if Exists(path) {
		return "", fmt.Errorf("refusing to overwrite existing key %s", path)
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate ed25519 key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return "", fmt.Errorf("encode private key: %w", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("encode public key: %w", err)
	}
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		authorized += " " + comment
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return "", fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(path+".pub", []byte(authorized+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write public key: %w", err)
	}
	return authorized, nil
}

// ConfigureAgent adds a Host * stanza to ~/.ssh/config so the key is loaded into
// the agent and stored in the keychain, then runs ssh-add once.
// A failing ssh-add (no agent running) is reported as a warning only.
func ConfigureAgent(ctx context.Context, r runner.Runner, home, keyPath string) error {
	rel := keyPath
	if strings.HasPrefix(keyPath, home+string(os.PathSeparator)) {
		rel = "~/" + strings.TrimPrefix(keyPath, home+string(os.PathSeparator))
	}
	identity := "IdentityFile " + rel
	block := strings.Join([]string{
		"Host *",
		"  AddKeysToAgent yes",
		"  UseKeychain yes",
		"  " + identity,
	}, "\n")
	added, err := rcfile.EnsureBlock(filepath.Join(home, ".ssh", "config"), identity, block)
	if err != nil {
		return fmt.Errorf("update ssh config: %w", err)
	}
	if added {
		logger.Info("Added %s to ~/.ssh/config", rel)
	}
	if err := r.Run(ctx, "ssh-add", "--apple-use-keychain", keyPath); err != nil {
		logger.Warning("ssh-add failed (%v); the key loads on first use instead", err)
	}
	return nil
}
