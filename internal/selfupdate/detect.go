// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	// homebrewMacARM is the Homebrew prefix on macOS ARM (Apple Silicon).
	homebrewMacARM = "/opt/homebrew/"

	// homebrewMacIntel is the Homebrew Cellar path on macOS Intel.
	homebrewMacIntel = "/usr/local/Cellar/"

	// homebrewLinux is the Linuxbrew prefix.
	homebrewLinux = "/home/linuxbrew/.linuxbrew/"

	// scriptInstallDir is the conventional install location for the shell
	// install script.
	scriptInstallDir = "/.local/bin/"

	// modulePath is the expected Go module path used to confirm go-install
	// origin.
	modulePath = "github.com/MystenLabs/suiup"

	// InstallMethodUnknown indicates the install method could not be
	// determined, typically a manual download.
	InstallMethodUnknown InstallMethod = 0

	// InstallMethodScript indicates installation via the shell install
	// script, which places the binary in ~/.local/bin/.
	InstallMethodScript InstallMethod = 1

	// InstallMethodHomebrew indicates installation via Homebrew.
	// Upgrades should be handled by `brew upgrade suiup`.
	InstallMethodHomebrew InstallMethod = 2

	// InstallMethodGoInstall indicates installation via `go install`.
	InstallMethodGoInstall InstallMethod = 3
)

// readBuildInfo is a test seam for debug.ReadBuildInfo.
var readBuildInfo = debug.ReadBuildInfo

// InstallMethod identifies how suiup was installed. Script and unknown
// installs can be self-updated in place; Homebrew and go-install defer to
// their package managers.
type InstallMethod int

// String returns a human-readable name for the install method.
func (m InstallMethod) String() string {
	switch m {
	case InstallMethodScript:
		return "script"
	case InstallMethodHomebrew:
		return "homebrew"
	case InstallMethodGoInstall:
		return "goinstall"
	}
	return "unknown"
}

// DetectInstallMethod determines how suiup was installed from the
// executable path and build metadata. Checks run from most to least
// specific: Homebrew prefixes, go-install build info, then the script
// install directory.
func DetectInstallMethod(execPath string) InstallMethod {
	norm := filepath.ToSlash(execPath)

	if strings.HasPrefix(norm, homebrewMacARM) ||
		strings.HasPrefix(norm, homebrewMacIntel) ||
		strings.HasPrefix(norm, homebrewLinux) {
		return InstallMethodHomebrew
	}

	if isGoInstall(norm) {
		return InstallMethodGoInstall
	}

	if strings.Contains(norm, scriptInstallDir) {
		return InstallMethodScript
	}

	return InstallMethodUnknown
}

// isGoInstall reports whether the binary lives in a Go bin directory and
// was built from this module, which together indicate `go install`.
func isGoInstall(normPath string) bool {
	inGoBin := false

	if gobin := os.Getenv("GOBIN"); gobin != "" {
		inGoBin = strings.HasPrefix(normPath, filepath.ToSlash(gobin))
	}
	if !inGoBin {
		gopath := os.Getenv("GOPATH")
		if gopath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return false
			}
			gopath = filepath.Join(home, "go")
		}
		inGoBin = strings.HasPrefix(normPath, filepath.ToSlash(filepath.Join(gopath, "bin")))
	}
	if !inGoBin {
		return false
	}

	info, ok := readBuildInfo()
	return ok && info.Main.Path == modulePath
}
