// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/MystenLabs/suiup/internal/install"
	"github.com/MystenLabs/suiup/internal/release"
)

// Repository that publishes suiup's own releases.
const (
	repoOwner = "MystenLabs"
	repoName  = "suiup"
)

var (
	// ErrInvalidVersion indicates the provided version string is not valid
	// semver.
	ErrInvalidVersion = errors.New("invalid semantic version")

	// Test seams for os.Executable and filepath.EvalSymlinks.
	osExecutable = os.Executable
	evalSymlinks = filepath.EvalSymlinks
)

type (
	// UpgradeCheck is the result of comparing the running binary against
	// the latest (or a pinned) suiup release. InstallMethod decides whether
	// Apply may replace the binary or must defer to a package manager.
	UpgradeCheck struct {
		CurrentVersion   string
		LatestVersion    string
		TargetRelease    *release.Release // nil when no upgrade applies
		InstallMethod    InstallMethod
		UpgradeAvailable bool
		Message          string
	}

	// Updater composes the releases client, install-method detection, and
	// checksum verification into the end-to-end upgrade flow.
	Updater struct {
		client         *release.Client
		currentVersion string
	}

	// UpdaterOption configures an Updater during construction.
	UpdaterOption func(*Updater)
)

// WithClient overrides the default releases client.
func WithClient(c *release.Client) UpdaterOption {
	return func(u *Updater) {
		u.client = c
	}
}

// NewUpdater creates an Updater for the given running version.
func NewUpdater(currentVersion string, opts ...UpdaterOption) *Updater {
	u := &Updater{
		currentVersion: currentVersion,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.client == nil {
		u.client = release.NewClient(repoOwner, repoName,
			release.WithUserAgent("suiup/"+currentVersion))
	}
	return u
}

// Check determines whether an upgrade is available. With an empty
// targetVersion the latest stable release wins; otherwise the pinned tag is
// fetched. Managed installs (Homebrew, go install) return immediately with
// package-manager guidance and no API call.
func (u *Updater) Check(ctx context.Context, targetVersion string) (*UpgradeCheck, error) {
	execPath, err := resolveExecPath()
	if err != nil {
		return nil, fmt.Errorf("resolving executable path: %w", err)
	}

	method := DetectInstallMethod(execPath)

	if method == InstallMethodHomebrew || method == InstallMethodGoInstall {
		return &UpgradeCheck{
			CurrentVersion: u.currentVersion,
			InstallMethod:  method,
			Message:        managedInstallMessage(method, execPath),
		}, nil
	}

	rel, err := u.targetRelease(ctx, targetVersion)
	if err != nil {
		return nil, err
	}

	currentNorm, err := normalizeVersion(u.currentVersion)
	if err != nil {
		return nil, fmt.Errorf("current version: %w", err)
	}
	targetNorm, err := normalizeVersion(rel.TagName)
	if err != nil {
		return nil, fmt.Errorf("release version: %w", err)
	}

	// A pre-release build at or beyond the target stable version happens
	// during development; it is not an upgrade candidate.
	if semver.Prerelease(currentNorm) != "" && semver.Compare(currentNorm, targetNorm) >= 0 {
		return &UpgradeCheck{
			CurrentVersion: u.currentVersion,
			LatestVersion:  rel.TagName,
			InstallMethod:  method,
			Message:        fmt.Sprintf("Running pre-release %s (ahead of %s).", u.currentVersion, rel.TagName),
		}, nil
	}

	if semver.Compare(currentNorm, targetNorm) >= 0 {
		return &UpgradeCheck{
			CurrentVersion: u.currentVersion,
			LatestVersion:  rel.TagName,
			InstallMethod:  method,
			Message:        "Already up to date.",
		}, nil
	}

	return &UpgradeCheck{
		CurrentVersion:   u.currentVersion,
		LatestVersion:    rel.TagName,
		TargetRelease:    rel,
		InstallMethod:    method,
		UpgradeAvailable: true,
		Message:          fmt.Sprintf("Upgrade available: %s -> %s", u.currentVersion, rel.TagName),
	}, nil
}

// targetRelease resolves the release to compare against: a pinned tag when
// given, otherwise the highest stable release.
func (u *Updater) targetRelease(ctx context.Context, targetVersion string) (*release.Release, error) {
	if targetVersion != "" {
		tag, err := normalizeVersion(targetVersion)
		if err != nil {
			return nil, err
		}
		rel, err := u.client.GetReleaseByTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("fetching release %s: %w", tag, err)
		}
		return rel, nil
	}

	all, err := u.client.ListReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}

	var best *release.Release
	for i := range all {
		r := &all[i]
		if r.Prerelease || !semver.IsValid(r.TagName) {
			continue
		}
		if best == nil || semver.Compare(r.TagName, best.TagName) > 0 {
			best = r
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no stable releases found")
	}
	return best, nil
}

// Apply downloads, verifies, and atomically replaces the running binary
// with the given release. Temp files live in the executable's directory so
// the final os.Rename stays on one filesystem.
func (u *Updater) Apply(ctx context.Context, rel *release.Release) error {
	if rel == nil {
		return errors.New("release must not be nil")
	}

	execPath, err := resolveExecPath()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	// Windows locks the running binary, so in-place replacement only works
	// for installs we know how to stage around.
	method := DetectInstallMethod(execPath)
	if runtime.GOOS == "windows" && method == InstallMethodUnknown {
		return fmt.Errorf(
			"automatic upgrade is not supported on Windows for manual installations; " +
				"download the new version from the GitHub releases page")
	}

	version := strings.TrimPrefix(rel.TagName, "v")
	archiveName := fmt.Sprintf("suiup_%s_%s_%s.tar.gz", version, runtime.GOOS, runtime.GOARCH)

	archiveAsset, err := release.FindAsset(rel.Assets, archiveName)
	if err != nil {
		return fmt.Errorf("finding archive asset: %w", err)
	}

	checksumsAsset, err := release.FindAsset(rel.Assets, "checksums.txt")
	if err != nil {
		return fmt.Errorf("finding checksums asset: %w", err)
	}

	// Fetch the small checksums file first so the archive can be verified
	// right after download.
	checksumsBody, err := u.client.DownloadAsset(ctx, checksumsAsset.BrowserDownloadURL)
	if err != nil {
		return fmt.Errorf("downloading checksums: %w", err)
	}
	expectedHash, err := FindChecksum(checksumsBody, archiveName)
	_ = checksumsBody.Close()
	if err != nil {
		return fmt.Errorf("finding checksum for %s: %w", archiveName, err)
	}

	targetDir := filepath.Dir(execPath)

	archivePath, err := u.downloadToTemp(ctx, archiveAsset.BrowserDownloadURL, targetDir)
	if err != nil {
		return fmt.Errorf("downloading archive: %w", err)
	}
	defer func() { _ = os.Remove(archivePath) }()

	if err := VerifyFile(archivePath, expectedHash); err != nil {
		return fmt.Errorf("verifying archive checksum: %w", err)
	}

	tempBinary := filepath.Join(targetDir, ".suiup-new")
	if err := install.ExtractBinary(archivePath, "suiup", tempBinary); err != nil {
		return fmt.Errorf("extracting binary from archive: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tempBinary)
		}
	}()

	// Preserve the original binary's permissions.
	info, err := os.Stat(execPath)
	if err != nil {
		return fmt.Errorf("reading original binary permissions: %w", err)
	}
	if err := os.Chmod(tempBinary, info.Mode()); err != nil {
		return fmt.Errorf("setting binary permissions: %w", err)
	}

	if err := os.Rename(tempBinary, execPath); err != nil {
		return fmt.Errorf("replacing binary: %w", err)
	}
	renamed = true

	return nil
}

// downloadToTemp streams an asset into a temp file inside dir and returns
// its path.
func (u *Updater) downloadToTemp(ctx context.Context, assetURL, dir string) (string, error) {
	body, err := u.client.DownloadAsset(ctx, assetURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	tmp, err := os.CreateTemp(dir, ".suiup-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing download: %w", err)
	}
	return tmpName, nil
}

// resolveExecPath returns the absolute, symlink-resolved path of the
// running binary.
func resolveExecPath() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("determining executable path: %w", err)
	}

	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", p, err)
	}

	return resolved, nil
}

// managedInstallMessage advises upgrading through the package manager that
// owns the install.
func managedInstallMessage(method InstallMethod, execPath string) string {
	switch method {
	case InstallMethodHomebrew:
		return fmt.Sprintf("Detected Homebrew installation at %s\n\nTo upgrade, run:\n  brew upgrade suiup", execPath)
	case InstallMethodGoInstall:
		return fmt.Sprintf("Detected go install at %s\n\nTo upgrade, run:\n  go install %s@latest", execPath, modulePath)
	}
	return ""
}

// normalizeVersion ensures the version has the "v" prefix the semver
// package requires and validates it.
func normalizeVersion(v string) (string, error) {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%q: %w", v, ErrInvalidVersion)
	}
	return v, nil
}
