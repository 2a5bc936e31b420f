package pkgmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"mac-bootstrap/internal/archive"
	"mac-bootstrap/internal/config"
	"mac-bootstrap/internal/logger"
)

// GitHubRelease is the subset of the GitHub release JSON response we read.
type GitHubRelease struct {
	TagName string         `json:"tag_name"` // The release tag (e.g., v1.0.0)
	Assets  []ReleaseAsset `json:"assets"`
}

// ReleaseAsset is one downloadable file attached to a release.
type ReleaseAsset struct {
	Name               string `json:"name"`                 // Asset filename
	BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
}

// Releases installs binaries from GitHub release archives into BinDir.
// Descriptors are looked up by name in the catalog entries it was built with.
type Releases struct {
	byName  map[string]config.Release
	BinDir  string
	APIBase string // https://api.github.com unless overridden in tests
	Client  *http.Client
	GOOS    string
	GOARCH  string
}

// NewReleases indexes entries by name and targets the running platform.
func NewReleases(entries []config.Release, binDir string) *Releases {
	byName := make(map[string]config.Release, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	return &Releases{
		byName:  byName,
		BinDir:  binDir,
		APIBase: "https://api.github.com",
		Client:  http.DefaultClient,
		GOOS:    runtime.GOOS,
		GOARCH:  runtime.GOARCH,
	}
}

func (r *Releases) lookup(name string) (config.Release, error) {
	rel, ok := r.byName[name]
	if !ok {
		return config.Release{}, fmt.Errorf("no release entry for %s", name)
	}
	if rel.Binary == "" {
		rel.Binary = rel.Name
	}
	return rel, nil
}

// IsInstalled reports whether the release binary already sits in BinDir.
func (r *Releases) IsInstalled(_ context.Context, name string) (bool, error) {
	rel, err := r.lookup(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(filepath.Join(r.BinDir, rel.Binary))
	if err != nil {
		return false, nil
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0, nil
}

// Install fetches the release metadata, picks the asset for this platform,
// downloads and unpacks it, and copies the binary into BinDir.
func (r *Releases) Install(ctx context.Context, name string) error {
	rel, err := r.lookup(name)
	if err != nil {
		return err
	}

	release, err := r.fetchRelease(ctx, rel)
	if err != nil {
		return err
	}
	asset, ok := SelectAsset(release.Assets, r.GOOS, r.GOARCH)
	if !ok {
		return fmt.Errorf("no asset in %s@%s matches %s/%s", rel.Repo, release.TagName, r.GOOS, r.GOARCH)
	}
	logger.Debug("selected release asset", "tool", name, "asset", asset.Name)

	work, err := os.MkdirTemp("", "mac-bootstrap-"+rel.Name+"-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(work)

	archivePath := filepath.Join(work, path.Base(asset.Name))
	if err := r.download(ctx, asset.BrowserDownloadURL, archivePath); err != nil {
		return err
	}
	extracted, err := archive.Extract(archivePath, filepath.Join(work, "x"))
	if err != nil {
		return err
	}
	bin, err := archive.FindExecutable(extracted, rel.Binary)
	if err != nil {
		return err
	}
	dst := filepath.Join(r.BinDir, rel.Binary)
	if err := copyFile(bin, dst, 0o755); err != nil {
		return fmt.Errorf("install %s to %s: %w", rel.Binary, r.BinDir, err)
	}
	logger.Debug("installed release binary", "path", dst)
	return nil
}

func (r *Releases) fetchRelease(ctx context.Context, rel config.Release) (*GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/tags/%s", strings.TrimSuffix(r.APIBase, "/"), rel.Repo, rel.Tag)
	logger.Debug("fetching GitHub release", "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release %s@%s: %w", rel.Repo, rel.Tag, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch release %s@%s: HTTP status %d", rel.Repo, rel.Tag, resp.StatusCode)
	}
	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release %s@%s: %w", rel.Repo, rel.Tag, err)
	}
	return &release, nil
}

func (r *Releases) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to GET %s: HTTP status %d", url, resp.StatusCode)
	}
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", dest, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("failed to write response to file: %w", err)
	}
	return out.Close()
}

var (
	osAliases = map[string][]string{
		"darwin": {"darwin", "macos", "apple-darwin", "osx", "mac"},
		"linux":  {"linux"},
	}
	archAliases = map[string][]string{
		"arm64": {"arm64", "aarch64"},
		"amd64": {"amd64", "x86_64", "x64"},
	}
)

// SelectAsset picks the first archive asset naming both the OS and the architecture.
// Failing that, an archive naming the OS alongside "universal" or "all" is accepted.
func SelectAsset(assets []ReleaseAsset, goos, goarch string) (ReleaseAsset, bool) {
	osTokens := osAliases[goos]
	if osTokens == nil {
		osTokens = []string{goos}
	}
	archTokens := archAliases[goarch]
	if archTokens == nil {
		archTokens = []string{goarch}
	}

	var fallback *ReleaseAsset
	for i, a := range assets {
		lower := strings.ToLower(a.Name)
		if !archive.Supported(lower) || !containsAny(lower, osTokens) {
			continue
		}
		if containsAny(lower, archTokens) {
			return a, true
		}
		if fallback == nil && containsAny(lower, []string{"universal", "all"}) {
			fallback = &assets[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return ReleaseAsset{}, false
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// copyFile copies src to dst with the given mode, creating dst's directory.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, mode)
}
