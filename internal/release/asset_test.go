// SPDX-License-Identifier: MPL-2.0

package release

import (
	"errors"
	"testing"
)

func TestPlatformSuffixMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos, goarch string
		want         string
	}{
		{"linux", "amd64", "ubuntu-x86_64"},
		{"linux", "arm64", "ubuntu-aarch64"},
		{"darwin", "amd64", "macos-x86_64"},
		{"darwin", "arm64", "macos-arm64"},
		{"windows", "amd64", "windows-x86_64"},
	}

	for _, tt := range tests {
		got, err := platformSuffix(tt.goos, tt.goarch)
		if err != nil {
			t.Fatalf("platformSuffix(%s/%s): unexpected error: %v", tt.goos, tt.goarch, err)
		}
		if got != tt.want {
			t.Errorf("platformSuffix(%s/%s) = %q, want %q", tt.goos, tt.goarch, got, tt.want)
		}
	}

	if _, err := platformSuffix("plan9", "386"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestFindPlatformAsset(t *testing.T) {
	t.Parallel()

	assets := []Asset{
		{Name: "sui-testnet-v1.39.3-ubuntu-x86_64.tgz"},
		{Name: "sui-testnet-v1.39.3-macos-arm64.tgz"},
		{Name: "sui-testnet-v1.39.3-ubuntu-x86_64.sig"},
	}

	t.Run("matches archive only", func(t *testing.T) {
		t.Parallel()

		got, err := FindPlatformAsset(assets, "ubuntu-x86_64")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "sui-testnet-v1.39.3-ubuntu-x86_64.tgz" {
			t.Errorf("asset = %q, want the .tgz archive", got.Name)
		}
	})

	t.Run("missing platform", func(t *testing.T) {
		t.Parallel()

		_, err := FindPlatformAsset(assets, "windows-x86_64")
		if !errors.Is(err, ErrAssetNotFound) {
			t.Fatalf("expected ErrAssetNotFound, got %v", err)
		}
	})
}
