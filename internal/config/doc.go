// SPDX-License-Identifier: MPL-2.0

// Package config resolves the process-wide suiup configuration once at
// startup. Values follow flag > environment variable > platform default
// precedence and are immutable afterwards; deeper layers receive the
// resolved Config instead of reading the environment ad hoc.
package config
