package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type entry struct {
	name string
	body string
	mode int64
}

func writeTarGz(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: e.mode, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeZip(t *testing.T, path string, entries []entry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		hdr.SetMode(os.FileMode(e.mode))
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestExtractTarGzKeepsExecBit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "lazygit_0.44.1_Darwin_arm64.tar.gz")
	writeTarGz(t, src, []entry{
		{name: "LICENSE", body: "mit", mode: 0o644},
		{name: "lazygit", body: "#!/bin/sh\n", mode: 0o755},
	})

	out, err := Extract(src, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	bin, err := FindExecutable(out, "lazygit")
	if err != nil {
		t.Fatalf("FindExecutable error: %v", err)
	}
	if filepath.Base(bin) != "lazygit" {
		t.Fatalf("found %s", bin)
	}
}

func TestExtractZipNestedDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tool-darwin-arm64.zip")
	writeZip(t, src, []entry{
		{name: "tool-1.0/README.md", body: "readme", mode: 0o644},
		{name: "tool-1.0/bin/tool-cli", body: "bin", mode: 0o755},
	})

	out, err := Extract(src, filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	bin, err := FindExecutable(out, "tool")
	if err != nil {
		t.Fatalf("FindExecutable error: %v", err)
	}
	if filepath.Base(bin) != "tool-cli" {
		t.Fatalf("expected prefixed match tool-cli, got %s", bin)
	}
}

func TestExtractRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	writeZip(t, src, []entry{{name: "../escape", body: "x", mode: 0o644}})

	if _, err := Extract(src, filepath.Join(dir, "out")); err == nil {
		t.Fatalf("expected traversal error")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape")); !os.IsNotExist(err) {
		t.Fatalf("file escaped destination")
	}
}

func TestExtractUnsupported(t *testing.T) {
	if _, err := Extract("/tmp/tool.dmg", t.TempDir()); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestFindExecutableNone(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tool"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := FindExecutable(dir, "tool")
	if !errors.Is(err, ErrNoExecutable) {
		t.Fatalf("expected ErrNoExecutable, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"a.tar.gz": true, "a.TGZ": true, "a.tar.xz": true, "a.7z": true, "a.zip": true,
		"a.dmg": false, "a.pkg": false, "checksums.txt": false,
	}
	for name, want := range cases {
		if got := Supported(name); got != want {
			t.Errorf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}
