package pkgmgr

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mac-bootstrap/internal/config"
)

func tarball(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o755, Size: int64(len(body)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	tw.Close()
	gw.Close()
	return buf.Bytes()
}

func TestSelectAsset(t *testing.T) {
	assets := []ReleaseAsset{
		{Name: "checksums.txt"},
		{Name: "lazygit_0.44.1_Linux_x86_64.tar.gz"},
		{Name: "lazygit_0.44.1_Darwin_x86_64.tar.gz"},
		{Name: "lazygit_0.44.1_Darwin_arm64.tar.gz"},
		{Name: "lazygit_0.44.1_Darwin_arm64.dmg"},
	}
	cases := []struct {
		goos, goarch, want string
		found              bool
	}{
		{"darwin", "arm64", "lazygit_0.44.1_Darwin_arm64.tar.gz", true},
		{"darwin", "amd64", "lazygit_0.44.1_Darwin_x86_64.tar.gz", true},
		{"linux", "amd64", "lazygit_0.44.1_Linux_x86_64.tar.gz", true},
		{"windows", "amd64", "", false},
	}
	for _, tc := range cases {
		got, ok := SelectAsset(assets, tc.goos, tc.goarch)
		if ok != tc.found || got.Name != tc.want {
			t.Errorf("SelectAsset(%s/%s) = %q, %v; want %q, %v", tc.goos, tc.goarch, got.Name, ok, tc.want, tc.found)
		}
	}
}

func TestSelectAssetUniversalFallback(t *testing.T) {
	assets := []ReleaseAsset{{Name: "tool_macos_universal.zip"}}
	got, ok := SelectAsset(assets, "darwin", "arm64")
	if !ok || got.Name != "tool_macos_universal.zip" {
		t.Fatalf("got %q, %v", got.Name, ok)
	}
}

func TestReleasesInstall(t *testing.T) {
	payload := tarball(t, "lazygit", "#!/bin/sh\necho lazygit\n")
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/repos/jesseduffield/lazygit/releases/tags/v0.44.1":
			_ = json.NewEncoder(w).Encode(GitHubRelease{
				TagName: "v0.44.1",
				Assets: []ReleaseAsset{
					{Name: "lazygit_Darwin_arm64.tar.gz", BrowserDownloadURL: srv.URL + "/dl/lazygit_Darwin_arm64.tar.gz"},
				},
			})
		case "/dl/lazygit_Darwin_arm64.tar.gz":
			_, _ = w.Write(payload)
		default:
			http.NotFound(w, req)
		}
	}))
	defer srv.Close()

	binDir := filepath.Join(t.TempDir(), "bin")
	rel := NewReleases([]config.Release{{Name: "lazygit", Repo: "jesseduffield/lazygit", Tag: "v0.44.1"}}, binDir)
	rel.APIBase = srv.URL
	rel.Client = srv.Client()
	rel.GOOS, rel.GOARCH = "darwin", "arm64"
	ctx := context.Background()

	if ok, _ := rel.IsInstalled(ctx, "lazygit"); ok {
		t.Fatalf("should not be installed yet")
	}
	if err := rel.Install(ctx, "lazygit"); err != nil {
		t.Fatalf("Install: %v", err)
	}
	if ok, err := rel.IsInstalled(ctx, "lazygit"); err != nil || !ok {
		t.Fatalf("after install IsInstalled = %v, %v", ok, err)
	}
	raw, err := os.ReadFile(filepath.Join(binDir, "lazygit"))
	if err != nil || string(raw) != "#!/bin/sh\necho lazygit\n" {
		t.Fatalf("installed binary = %q (%v)", raw, err)
	}
}

func TestReleasesMissingTag(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	rel := NewReleases([]config.Release{{Name: "x", Repo: "a/x", Tag: "v9"}}, t.TempDir())
	rel.APIBase = srv.URL
	rel.Client = srv.Client()
	if err := rel.Install(context.Background(), "x"); err == nil {
		t.Fatalf("expected HTTP error")
	}
}

func TestReleasesUnknownName(t *testing.T) {
	rel := NewReleases(nil, t.TempDir())
	if _, err := rel.IsInstalled(context.Background(), "ghost"); err == nil {
		t.Fatalf("expected lookup error")
	}
}
