// SPDX-License-Identifier: MPL-2.0

// Package release is the GitHub Releases client shared by the installer
// and the self-updater. It covers release listing with bounded pagination,
// tag lookup, streaming asset download, rate-limit detection, and the
// Mysten release-tag conventions (network-prefixed tags, platform asset
// names).
package release
