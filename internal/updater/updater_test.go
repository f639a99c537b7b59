package updater

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in      string
		want    Semver
		wantErr bool
	}{
		{in: "1.2.3", want: Semver{1, 2, 3, ""}},
		{in: "v0.10.0", want: Semver{0, 10, 0, ""}},
		{in: "1.2.0-rc.1", want: Semver{1, 2, 0, "rc.1"}},
		{in: "1.2.0+build.7", want: Semver{1, 2, 0, ""}},
		{in: "dev", wantErr: true},
		{in: "1.2", wantErr: true},
		{in: "1.2.x", wantErr: true},
		{in: "1.2.3-", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSemver(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSemverLessThan(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.0.0", "1.0.1", true},
		{"1.0.1", "1.0.0", false},
		{"1.9.9", "2.0.0", true},
		{"1.2.0", "1.10.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0-rc.1", "1.0.0", true},
		{"1.0.0", "1.0.0-rc.1", false},
		{"1.0.0-rc.1", "1.0.0-rc.2", true},
	}
	for _, tt := range tests {
		t.Run(tt.a+"<"+tt.b, func(t *testing.T) {
			a, err := ParseSemver(tt.a)
			require.NoError(t, err)
			b, err := ParseSemver(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.LessThan(b))
		})
	}
}

func releaseServer(t *testing.T, status int, tag string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(latestReleasePath, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "horalis/")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.test/r","assets":[{"name":"horalis-linux-amd64","browser_download_url":"https://example.test/a","size":3}]}`, tag)
	})
	mux.HandleFunc("/download/bin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bin"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckForUpdate(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, "v1.4.0")

	c := New(srv.URL)
	c.current = "1.3.9"
	res, err := c.CheckForUpdate()
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, "1.4.0", res.LatestVersion)
	assert.Equal(t, "https://example.test/r", res.ReleaseURL)
	require.NotNil(t, FindAsset(res.Release, "horalis-linux-amd64"))
	assert.Nil(t, FindAsset(res.Release, "nope"))

	c.current = "1.4.0"
	res, err = c.CheckForUpdate()
	require.NoError(t, err)
	assert.False(t, res.Available)

	c.current = "dev"
	res, err = c.CheckForUpdate()
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCheckForUpdateNoReleases(t *testing.T) {
	srv := releaseServer(t, http.StatusNotFound, "")

	res, err := New(srv.URL).CheckForUpdate()
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Nil(t, res.Release)
}

func TestCheckForUpdateServerError(t *testing.T) {
	srv := releaseServer(t, http.StatusInternalServerError, "")

	_, err := New(srv.URL).CheckForUpdate()
	assert.ErrorContains(t, err, "500")
}

func TestDownloadAsset(t *testing.T) {
	srv := releaseServer(t, http.StatusOK, "v1.0.0")

	path, err := New(srv.URL).DownloadAsset(&Asset{BrowserDownloadURL: srv.URL + "/download/bin"})
	require.NoError(t, err)
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bin", string(data))

	_, err = New(srv.URL).DownloadAsset(&Asset{BrowserDownloadURL: srv.URL + "/missing"})
	assert.Error(t, err)
}

func TestReplaceBinary(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "horalis")
	fresh := filepath.Join(dir, "fresh")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o755))
	require.NoError(t, os.WriteFile(fresh, []byte("new"), 0o755))

	require.NoError(t, ReplaceBinary(dest, fresh))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.NoFileExists(t, dest+".bak")
	assert.NoFileExists(t, fresh)
}

func TestAssetName(t *testing.T) {
	want := "horalisd-" + runtime.GOOS + "-" + runtime.GOARCH
	if runtime.GOOS == "windows" {
		want += ".exe"
	}
	assert.Equal(t, want, DaemonAssetName())
}

func TestDue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	hoursAgo := func(h int) *time.Time {
		ts := now.Add(-time.Duration(h) * time.Hour)
		return &ts
	}

	assert.True(t, Due("daily", nil, now))
	assert.True(t, Due("every_launch", hoursAgo(0), now))
	assert.False(t, Due("daily", hoursAgo(23), now))
	assert.True(t, Due("daily", hoursAgo(24), now))
	assert.False(t, Due("weekly", hoursAgo(100), now))
	assert.True(t, Due("weekly", hoursAgo(168), now))
}
