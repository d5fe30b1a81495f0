// SPDX-License-Identifier: MPL-2.0

// Package selfupdate keeps the suiup binary itself current. It builds on
// the shared GitHub releases client and adds install-method detection,
// SHA256 checksum verification, atomic binary replacement, and the
// fire-and-forget background notifier that warns about newer releases.
package selfupdate
