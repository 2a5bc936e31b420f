package logger

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestStatusLinesCarryTags(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Info("Installing %s...", "jq")
	Success("%s installed", "jq")
	Warning("%s failed", "slack")
	Error("boom")

	want := "[INFO] Installing jq...\n" +
		"[SUCCESS] jq installed\n" +
		"[WARNING] slack failed\n" +
		"[ERROR] boom\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrintIsUntagged(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	Print("raw\n")
	if buf.String() != "raw\n" {
		t.Fatalf("got %q", buf.String())
	}
}
