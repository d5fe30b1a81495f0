// SPDX-License-Identifier: MPL-2.0

package release

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Mysten binaries publish releases under network-prefixed tags such as
// "testnet-v1.39.3". This file converts between those tags and the
// (network, version) pair the specifier grammar produces.

// Tag builds the release tag for a network and bare version
// ("testnet", "1.39.3" -> "testnet-v1.39.3"). A version that already
// carries the "v" prefix is used as-is.
func Tag(network, version string) string {
	if strings.HasPrefix(version, "v") {
		return network + "-" + version
	}
	return network + "-v" + version
}

// ParseTag splits a network release tag into its network and bare version.
// ok is false for tags that do not follow the network-v scheme (drafts,
// plain semver tags of other repos, and so on).
func ParseTag(tag string) (network, version string, ok bool) {
	network, rest, found := strings.Cut(tag, "-")
	if !found || network == "" {
		return "", "", false
	}
	version = strings.TrimPrefix(rest, "v")
	if version == "" || version == rest {
		return "", "", false
	}
	return network, version, true
}

// LatestForNetwork selects the release with the highest semver version
// among those tagged for the given network. Releases whose tags do not
// follow the network scheme, or whose versions are not valid semver, are
// skipped.
func LatestForNetwork(releases []Release, network string) (*Release, error) {
	var (
		best        *Release
		bestVersion string
	)

	for i := range releases {
		tagNetwork, version, ok := ParseTag(releases[i].TagName)
		if !ok || tagNetwork != network {
			continue
		}
		canonical := "v" + version
		if !semver.IsValid(canonical) {
			continue
		}
		if best == nil || semver.Compare(canonical, bestVersion) > 0 {
			best = &releases[i]
			bestVersion = canonical
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no %s releases found: %w", network, ErrReleaseNotFound)
	}
	return best, nil
}
