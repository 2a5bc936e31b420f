// Package rcfile appends lines to shell and ssh config files without duplicating them.
package rcfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mac-bootstrap/internal/logger"
)

// EnsureLines appends each non-empty line that is not already present in the file at path.
// Comparison is on trimmed text. The file and its directory are created when missing.
// Returns how many lines were written.
func EnsureLines(path string, lines ...string) (int, error) {
	existing, err := readTrimmed(path)
	if err != nil {
		return 0, err
	}

	var missing []string
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || existing[trimmed] {
			logger.Debug("rc line already present", "file", path, "line", trimmed)
			continue
		}
		missing = append(missing, trimmed)
		existing[trimmed] = true
	}
	if len(missing) == 0 {
		return 0, nil
	}
	if err := appendText(path, strings.Join(missing, "\n")+"\n"); err != nil {
		return 0, err
	}
	return len(missing), nil
}

// EnsureBlock appends block verbatim unless the file already contains marker.
// Used for multi-line stanzas (ssh Host blocks) where per-line dedup would be wrong.
func EnsureBlock(path, marker, block string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.Contains(string(raw), marker) {
		return false, nil
	}
	text := block
	if len(raw) > 0 && !strings.HasSuffix(string(raw), "\n") {
		text = "\n" + text
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := appendText(path, text); err != nil {
		return false, err
	}
	return true, nil
}

func readTrimmed(path string) (map[string]bool, error) {
	existing := make(map[string]bool)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		existing[strings.TrimSpace(scanner.Text())] = true
	}
	return existing, scanner.Err()
}

func appendText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	// A file without a trailing newline would glue our first line onto its last one.
	if raw, err := os.ReadFile(path); err == nil && len(raw) > 0 && !strings.HasSuffix(string(raw), "\n") && !strings.HasPrefix(text, "\n") {
		text = "\n" + text
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("unable to open %s for appending: %w", path, err)
	}
	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
