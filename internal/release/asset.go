// SPDX-License-Identifier: MPL-2.0

package release

import (
	"fmt"
	"runtime"
	"strings"
)

// PlatformSuffix returns the platform identifier Mysten release assets use
// in their filenames (e.g. "ubuntu-x86_64", "macos-arm64"). Unsupported
// GOOS/GOARCH combinations are an error rather than a silent mismatch.
func PlatformSuffix() (string, error) {
	return platformSuffix(runtime.GOOS, runtime.GOARCH)
}

func platformSuffix(goos, goarch string) (string, error) {
	switch goos + "/" + goarch {
	case "linux/amd64":
		return "ubuntu-x86_64", nil
	case "linux/arm64":
		return "ubuntu-aarch64", nil
	case "darwin/amd64":
		return "macos-x86_64", nil
	case "darwin/arm64":
		return "macos-arm64", nil
	case "windows/amd64":
		return "windows-x86_64", nil
	}
	return "", fmt.Errorf("no release assets are published for %s/%s", goos, goarch)
}

// FindPlatformAsset picks the archive asset for the current platform.
// Mysten asset names embed both the release tag and the platform suffix
// (e.g. "sui-testnet-v1.39.3-ubuntu-x86_64.tgz"), so a substring match on
// the suffix plus an archive extension is sufficient.
func FindPlatformAsset(assets []Asset, suffix string) (*Asset, error) {
	for i := range assets {
		name := assets[i].Name
		if !strings.Contains(name, suffix) {
			continue
		}
		if strings.HasSuffix(name, ".tgz") ||
			strings.HasSuffix(name, ".tar.gz") ||
			strings.HasSuffix(name, ".zip") {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset for platform %s: %w", suffix, ErrAssetNotFound)
}
