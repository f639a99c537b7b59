// Package updater checks for updates via GitHub Releases and replaces binaries.
package updater

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fremvaerk/horalis/internal/buildinfo"
)

// DefaultAPIURL is the GitHub API root for release lookups.
const DefaultAPIURL = "https://api.github.com"

const latestReleasePath = "/repos/fremvaerk/horalis/releases/latest"

// ReleaseInfo contains information about a GitHub release.
type ReleaseInfo struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset represents a downloadable file in a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// UpdateResult contains the result of an update check.
type UpdateResult struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	Release        *ReleaseInfo
}

// Client talks to the releases API.
type Client struct {
	http    *resty.Client
	current string
}

// New returns a client for apiURL (DefaultAPIURL when empty).
func New(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(apiURL).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/vnd.github.v3+json").
			SetHeader("User-Agent", "horalis/"+buildinfo.Version),
		current: buildinfo.Version,
	}
}

// CheckForUpdate queries the latest release and compares it with the
// running version.
func (c *Client) CheckForUpdate() (*UpdateResult, error) {
	var release ReleaseInfo
	resp, err := c.http.R().
		SetResult(&release).
		Get(latestReleasePath)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		// No releases yet
		return &UpdateResult{CurrentVersion: c.current}, nil
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode())
	}

	result := &UpdateResult{
		CurrentVersion: c.current,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		ReleaseURL:     release.HTMLURL,
		Release:        &release,
	}

	latest, err := ParseSemver(result.LatestVersion)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", result.LatestVersion, err)
	}
	current, err := ParseSemver(c.current)
	if err != nil {
		// "dev" and other unparseable builds are always behind
		result.Available = true
		return result, nil
	}
	result.Available = current.LessThan(latest)
	return result, nil
}

// CheckForUpdate checks the public releases API.
func CheckForUpdate() (*UpdateResult, error) {
	return New("").CheckForUpdate()
}

// AssetName returns the release asset name of binary for this platform,
// e.g. "horalisd-linux-amd64" or "horalis-windows-amd64.exe".
func AssetName(binary string) string {
	name := fmt.Sprintf("%s-%s-%s", binary, runtime.GOOS, runtime.GOARCH)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return name
}

// CLIAssetName returns the expected asset name for the CLI binary.
func CLIAssetName() string {
	return AssetName("horalis")
}

// DaemonAssetName returns the expected asset name for the daemon binary.
func DaemonAssetName() string {
	return AssetName("horalisd")
}

// FindAsset finds an asset by name in a release.
func FindAsset(release *ReleaseInfo, name string) *Asset {
	for i := range release.Assets {
		if release.Assets[i].Name == name {
			return &release.Assets[i]
		}
	}
	return nil
}

// DownloadAsset downloads a release asset to a temp file and returns the path.
func (c *Client) DownloadAsset(asset *Asset) (string, error) {
	tmpFile, err := os.CreateTemp("", "horalis-update-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	resp, err := c.http.R().
		SetOutput(tmpPath).
		Get(asset.BrowserDownloadURL)
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("download asset: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		os.Remove(tmpPath)
		return "", fmt.Errorf("download returned %d", resp.StatusCode())
	}

	if err := os.Chmod(tmpPath, 0755); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return tmpPath, nil
}

// ReplaceBinary replaces the binary at destPath with the one at newPath,
// restoring the original if the move fails.
func ReplaceBinary(destPath, newPath string) error {
	destPath, err := filepath.EvalSymlinks(destPath)
	if err != nil {
		return fmt.Errorf("resolve symlink: %w", err)
	}

	bakPath := destPath + ".bak"
	os.Remove(bakPath)

	if err := os.Rename(destPath, bakPath); err != nil {
		return fmt.Errorf("backup old binary: %w", err)
	}
	if err := os.Rename(newPath, destPath); err != nil {
		_ = os.Rename(bakPath, destPath)
		return fmt.Errorf("install new binary: %w", err)
	}

	// A running binary can't be deleted on Windows; the .bak is removed
	// by the next update instead.
	os.Remove(bakPath)
	return nil
}

// Due reports whether an update check should run for the given frequency
// ("every_launch", "daily" or "weekly") and the time of the last check.
func Due(frequency string, lastChecked *time.Time, now time.Time) bool {
	if lastChecked == nil {
		return true
	}
	switch frequency {
	case "weekly":
		return now.Sub(*lastChecked) >= 7*24*time.Hour
	case "daily":
		return now.Sub(*lastChecked) >= 24*time.Hour
	}
	return true
}
