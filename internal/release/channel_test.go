// SPDX-License-Identifier: MPL-2.0

package release

import (
	"errors"
	"testing"
)

func TestTag(t *testing.T) {
	t.Parallel()

	if got := Tag("testnet", "1.39.3"); got != "testnet-v1.39.3" {
		t.Errorf("Tag = %q, want %q", got, "testnet-v1.39.3")
	}
	if got := Tag("mainnet", "v1.38.1"); got != "mainnet-v1.38.1" {
		t.Errorf("Tag with v prefix = %q, want %q", got, "mainnet-v1.38.1")
	}
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag         string
		wantNetwork string
		wantVersion string
		wantOK      bool
	}{
		{"testnet-v1.39.3", "testnet", "1.39.3", true},
		{"devnet-v1.40.0-rc.1", "devnet", "1.40.0-rc.1", true},
		{"v1.0.0", "", "", false},
		{"testnet-1.39.3", "", "", false},
		{"-v1.0.0", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			network, version, ok := ParseTag(tt.tag)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if network != tt.wantNetwork || version != tt.wantVersion {
				t.Errorf("ParseTag(%q) = (%q, %q), want (%q, %q)",
					tt.tag, network, version, tt.wantNetwork, tt.wantVersion)
			}
		})
	}
}

func TestLatestForNetwork(t *testing.T) {
	t.Parallel()

	releases := []Release{
		{TagName: "testnet-v1.38.0"},
		{TagName: "mainnet-v1.39.1"},
		{TagName: "testnet-v1.39.3"},
		{TagName: "testnet-v1.39.1"},
		{TagName: "not-a-release"},
	}

	t.Run("highest semver wins", func(t *testing.T) {
		t.Parallel()

		got, err := LatestForNetwork(releases, "testnet")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.TagName != "testnet-v1.39.3" {
			t.Errorf("latest = %q, want %q", got.TagName, "testnet-v1.39.3")
		}
	})

	t.Run("unknown network", func(t *testing.T) {
		t.Parallel()

		_, err := LatestForNetwork(releases, "localnet")
		if !errors.Is(err, ErrReleaseNotFound) {
			t.Fatalf("expected ErrReleaseNotFound, got %v", err)
		}
	})
}
