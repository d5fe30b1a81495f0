// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name, used as the directory name under the
// platform data and cache roots.
const AppName = "suiup"

// dataDirOverride allows tests to override the data directory.
// os.UserHomeDir() doesn't reliably respect the HOME environment variable
// on all platforms (e.g., macOS in CI), so tests set this instead.
var dataDirOverride string

// SetDataDirOverride sets a custom data directory path, primarily for tests.
func SetDataDirOverride(dir string) {
	dataDirOverride = dir
}

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	dataDirOverride = ""
}

// DataDir returns the suiup data directory using platform-specific
// conventions: Windows uses %LOCALAPPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_DATA_HOME
// (defaulting to ~/.local/share).
func DataDir() (string, error) {
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}

	var dataDir string

	switch runtime.GOOS {
	case "windows":
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}

// CacheDir returns the suiup download cache directory: %TEMP% on Windows,
// ~/Library/Caches on macOS, $XDG_CACHE_HOME (default ~/.cache) elsewhere.
func CacheDir() (string, error) {
	var cacheDir string

	switch runtime.GOOS {
	case "windows":
		cacheDir = os.Getenv("TEMP")
		if cacheDir == "" {
			cacheDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local", "Temp")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, "Library", "Caches")
	default:
		cacheDir = os.Getenv("XDG_CACHE_HOME")
		if cacheDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			cacheDir = filepath.Join(home, ".cache")
		}
	}

	return filepath.Join(cacheDir, AppName), nil
}

// DefaultBinDir returns the directory where the active default binaries
// are placed. The path is ~/.local/bin on all platforms, which users are
// expected to have on PATH.
func DefaultBinDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// BinariesDir returns the versioned binary store under the data directory.
func BinariesDir(dataDir string) string {
	return filepath.Join(dataDir, "binaries")
}

// StateFile returns the path of the installed-versions state file.
func StateFile(dataDir string) string {
	return filepath.Join(dataDir, "state.toml")
}
