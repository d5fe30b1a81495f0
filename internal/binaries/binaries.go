// SPDX-License-Identifier: MPL-2.0

package binaries

import (
	"fmt"
	"strings"
)

// DefaultNetwork is the release network assumed when a specifier does not
// name one.
const DefaultNetwork = "testnet"

type (
	// BinaryName identifies one of the installable binaries. It is a pure
	// tag: the set is closed and each value maps bijectively to a canonical
	// lowercase string used for both parsing and display.
	BinaryName int

	// CommandMetadata is the resolved form of a user-supplied specifier.
	// Network is always populated (DefaultNetwork when the input omitted it);
	// Version is nil exactly when the input did not pin a concrete version,
	// meaning "latest of that network".
	CommandMetadata struct {
		Name    BinaryName
		Network string
		Version *string
	}

	// InvalidBinaryNameError reports a token that matches no canonical
	// binary name.
	InvalidBinaryNameError struct {
		Token string
	}

	// InvalidSpecifierFormatError reports a specifier whose delimiter split
	// produced an unsupported number of parts.
	InvalidSpecifierFormatError struct {
		Token string
	}
)

const (
	Mvr BinaryName = iota
	Sui
	Walrus
	WalrusSites
)

// All returns every BinaryName in display order.
func All() []BinaryName {
	return []BinaryName{Mvr, Sui, Walrus, WalrusSites}
}

// String returns the canonical lowercase form. It is the exact string
// accepted by Parse, so Parse(b.String()) == b for every value.
func (b BinaryName) String() string {
	switch b {
	case Mvr:
		return "mvr"
	case Sui:
		return "sui"
	case Walrus:
		return "walrus"
	case WalrusSites:
		return "site-builder"
	}
	return "unknown"
}

// RepoURL returns the upstream source repository for the binary.
func (b BinaryName) RepoURL() string {
	owner, repo := b.Repo()
	return "https://github.com/" + owner + "/" + repo
}

// Repo returns the GitHub owner and repository that publish releases for
// the binary.
func (b BinaryName) Repo() (owner, repo string) {
	switch b {
	case Mvr:
		return "MystenLabs", "mvr"
	case Walrus:
		return "MystenLabs", "walrus"
	case WalrusSites:
		return "MystenLabs", "walrus-sites"
	default:
		return "MystenLabs", "sui"
	}
}

// Parse resolves a token to a BinaryName, case-insensitively. Any token
// outside the canonical set fails with an *InvalidBinaryNameError.
func Parse(s string) (BinaryName, error) {
	switch strings.ToLower(s) {
	case "mvr":
		return Mvr, nil
	case "sui":
		return Sui, nil
	case "walrus":
		return Walrus, nil
	case "site-builder":
		return WalrusSites, nil
	}
	return 0, &InvalidBinaryNameError{Token: s}
}

func (e *InvalidBinaryNameError) Error() string {
	return fmt.Sprintf("Invalid binary name: %s. Use `suiup list` to find available binaries to install.", e.Token)
}

func (e *InvalidSpecifierFormatError) Error() string {
	return "Invalid format. Use 'binary' or 'binary version'"
}

// ParseComponentWithVersion resolves one free-form specifier token into
// CommandMetadata.
//
// The delimiter is chosen on the whole input in strict priority order:
// "@" if present, else "==", else "=", else a single space. The space rule
// is a loose fallback for inputs like "sui 1.39.3" passed as one shell
// argument; it will mis-split values containing literal spaces. The input
// is split on every occurrence of the chosen delimiter: one part is a bare
// binary name, two parts are name plus version spec, anything else is a
// format error. Callers depend on this exact acceptance behavior, so do
// not tighten the grammar here.
func ParseComponentWithVersion(s string) (CommandMetadata, error) {
	splitOn := " "
	switch {
	case strings.Contains(s, "@"):
		splitOn = "@"
	case strings.Contains(s, "=="):
		splitOn = "=="
	case strings.Contains(s, "="):
		splitOn = "="
	}

	parts := strings.Split(s, splitOn)

	switch len(parts) {
	case 1:
		name, err := Parse(parts[0])
		if err != nil {
			return CommandMetadata{}, err
		}
		network, version := ParseVersionSpec(nil)
		return CommandMetadata{Name: name, Network: network, Version: version}, nil
	case 2:
		name, err := Parse(parts[0])
		if err != nil {
			return CommandMetadata{}, err
		}
		network, version := ParseVersionSpec(&parts[1])
		return CommandMetadata{Name: name, Network: network, Version: version}, nil
	default:
		return CommandMetadata{}, &InvalidSpecifierFormatError{Token: s}
	}
}

// ParseVersionSpec splits the version portion of a specifier into a network
// and an optional version. A nil spec means "latest of the default
// network". A spec with a recognized network prefix ("testnet-1.39.3") is
// split at the first dash; a spec that is exactly a network name selects
// that network's latest; anything else is treated as a bare version for the
// default network. The catch-all branch means this function never fails —
// unrecognized prefixes deliberately fall through rather than erroring.
func ParseVersionSpec(spec *string) (network string, version *string) {
	if spec == nil {
		return DefaultNetwork, nil
	}

	s := *spec
	if strings.HasPrefix(s, "testnet-") ||
		strings.HasPrefix(s, "devnet-") ||
		strings.HasPrefix(s, "mainnet-") {
		parts := strings.SplitN(s, "-", 2)
		return parts[0], &parts[1]
	}

	if s == "testnet" || s == "devnet" || s == "mainnet" {
		return s, nil
	}

	return DefaultNetwork, &s
}
