// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/MystenLabs/suiup/internal/release"
)

// setExecPath points the executable-path seams at a fake binary for the
// duration of one test.
func setExecPath(t *testing.T, path string) {
	t.Helper()

	origExec, origEval := osExecutable, evalSymlinks
	t.Cleanup(func() {
		osExecutable, evalSymlinks = origExec, origEval
	})
	osExecutable = func() (string, error) { return path, nil }
	evalSymlinks = func(p string) (string, error) { return p, nil }
}

type wireAsset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

type wireRelease struct {
	TagName    string      `json:"tag_name"`
	Prerelease bool        `json:"prerelease"`
	Draft      bool        `json:"draft"`
	Assets     []wireAsset `json:"assets"`
}

func newAPIServer(t *testing.T, releases []wireRelease) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(releases)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestUpdater(t *testing.T, current string, srv *httptest.Server) *Updater {
	t.Helper()

	client := release.NewClient("MystenLabs", "suiup", release.WithBaseURL(srv.URL))
	return NewUpdater(current, WithClient(client))
}

func fakeBinary(t *testing.T) string {
	t.Helper()

	// A path outside any Homebrew/go-install heuristic, so the install
	// method detects as unknown and the check proceeds to the API.
	path := filepath.Join(t.TempDir(), "opt", "suiup")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("current build"), 0o755); err != nil {
		t.Fatalf("writing fake binary: %v", err)
	}
	return path
}

func TestCheckUpgradeAvailable(t *testing.T) {
	srv := newAPIServer(t, []wireRelease{
		{TagName: "v1.2.0"},
		{TagName: "v1.1.0"},
		{TagName: "v2.0.0-rc.1", Prerelease: true},
	})
	setExecPath(t, fakeBinary(t))

	u := newTestUpdater(t, "v1.1.0", srv)
	check, err := u.Check(context.Background(), "")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if !check.UpgradeAvailable {
		t.Fatal("expected an available upgrade")
	}
	if check.LatestVersion != "v1.2.0" {
		t.Errorf("latest = %q, want highest stable v1.2.0", check.LatestVersion)
	}
	if check.TargetRelease == nil {
		t.Error("TargetRelease should be set when an upgrade is available")
	}
}

func TestCheckAlreadyUpToDate(t *testing.T) {
	srv := newAPIServer(t, []wireRelease{{TagName: "v1.2.0"}})
	setExecPath(t, fakeBinary(t))

	u := newTestUpdater(t, "v1.2.0", srv)
	check, err := u.Check(context.Background(), "")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if check.UpgradeAvailable {
		t.Error("no upgrade should be offered at the latest version")
	}
	if check.Message != "Already up to date." {
		t.Errorf("message = %q", check.Message)
	}
}

func TestCheckPrereleaseAhead(t *testing.T) {
	srv := newAPIServer(t, []wireRelease{{TagName: "v1.2.0"}})
	setExecPath(t, fakeBinary(t))

	u := newTestUpdater(t, "v1.3.0-dev", srv)
	check, err := u.Check(context.Background(), "")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if check.UpgradeAvailable {
		t.Error("a pre-release ahead of stable should not downgrade")
	}
}

func TestCheckManagedInstallSkipsAPI(t *testing.T) {
	// A Homebrew path must short-circuit before any API call; the server
	// would fail the test if contacted.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("managed install check should not hit the API")
	}))
	t.Cleanup(srv.Close)

	setExecPath(t, "/opt/homebrew/bin/suiup")

	u := newTestUpdater(t, "v1.0.0", srv)
	check, err := u.Check(context.Background(), "")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if check.InstallMethod != InstallMethodHomebrew {
		t.Errorf("method = %v, want homebrew", check.InstallMethod)
	}
	if check.UpgradeAvailable {
		t.Error("managed installs must not offer direct upgrades")
	}
}

func TestCheckInvalidCurrentVersion(t *testing.T) {
	srv := newAPIServer(t, []wireRelease{{TagName: "v1.2.0"}})
	setExecPath(t, fakeBinary(t))

	u := newTestUpdater(t, "not-a-version", srv)
	if _, err := u.Check(context.Background(), ""); err == nil {
		t.Fatal("expected error for invalid current version")
	}
}

func TestNormalizeVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.2.3", "v1.2.3", false},
		{"v1.2.3", "v1.2.3", false},
		{"garbage", "", true},
	}

	for _, tt := range tests {
		got, err := normalizeVersion(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("normalizeVersion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectInstallMethod(t *testing.T) {
	tests := []struct {
		name string
		path string
		want InstallMethod
	}{
		{"homebrew arm", "/opt/homebrew/bin/suiup", InstallMethodHomebrew},
		{"homebrew intel", "/usr/local/Cellar/suiup/1.0.0/bin/suiup", InstallMethodHomebrew},
		{"linuxbrew", "/home/linuxbrew/.linuxbrew/bin/suiup", InstallMethodHomebrew},
		{"script", "/home/user/.local/bin/suiup", InstallMethodScript},
		{"unknown", "/srv/tools/suiup", InstallMethodUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectInstallMethod(tt.path); got != tt.want {
				t.Errorf("DetectInstallMethod(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
