// SPDX-License-Identifier: MPL-2.0

// Package install owns the on-disk layout of installed binaries: the TOML
// state registry, archive extraction, placement of versioned binaries and
// the active defaults, and cache eviction.
package install
