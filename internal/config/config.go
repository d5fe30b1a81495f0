// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the process-wide options. It is constructed once by Load
// and never mutated afterwards.
type Config struct {
	// GitHubToken authenticates GitHub API requests for higher rate limits
	// (5000/hour vs 60/hour unauthenticated). Empty means unauthenticated.
	GitHubToken string `mapstructure:"github_token"`

	// DisableUpdateWarnings suppresses the background check for newer
	// suiup releases.
	DisableUpdateWarnings bool `mapstructure:"disable_update_warnings"`

	// DataDir is the root for installed binaries and the state file.
	DataDir string `mapstructure:"data_dir"`

	// CacheDir holds downloaded release archives.
	CacheDir string `mapstructure:"cache_dir"`

	// DefaultBinDir is where the active default binaries are placed.
	DefaultBinDir string `mapstructure:"default_bin_dir"`
}

// Load resolves the configuration with flag > environment > default
// precedence. The flags argument may be nil when no command-line flags
// participate (e.g., in tests).
//
// Environment variables: GITHUB_TOKEN, SUIUP_DISABLE_UPDATE_WARNINGS,
// SUIUP_DATA_DIR, SUIUP_CACHE_DIR, SUIUP_DEFAULT_BIN_DIR.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Env bindings. BindEnv values take effect only when the variable is
	// set, so defaults below still apply.
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	dataDir, err := DataDir()
	if err != nil {
		return nil, err
	}
	cacheDir, err := CacheDir()
	if err != nil {
		return nil, err
	}
	binDir, err := DefaultBinDir()
	if err != nil {
		return nil, err
	}

	v.SetDefault("github_token", "")
	v.SetDefault("disable_update_warnings", false)
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("cache_dir", cacheDir)
	v.SetDefault("default_bin_dir", binDir)

	// Flags outrank environment variables: bind only the flags that were
	// explicitly set so unset flags don't shadow the env values.
	if flags != nil {
		bindings := map[string]string{
			"github_token":            "github-token",
			"disable_update_warnings": "disable-update-warnings",
		}
		for key, name := range bindings {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// bindEnvs wires each config key to its environment variable. GITHUB_TOKEN
// deliberately has no SUIUP_ prefix: it is the conventional name shared
// with other GitHub tooling.
func bindEnvs(v *viper.Viper) error {
	for key, env := range map[string]string{
		"github_token":            "GITHUB_TOKEN",
		"disable_update_warnings": "SUIUP_DISABLE_UPDATE_WARNINGS",
		"data_dir":                "SUIUP_DATA_DIR",
		"cache_dir":               "SUIUP_CACHE_DIR",
		"default_bin_dir":         "SUIUP_DEFAULT_BIN_DIR",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding env %s: %w", env, err)
		}
	}
	return nil
}
