// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	// Not parallel: mutates the process environment.
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("SUIUP_DISABLE_UPDATE_WARNINGS", "")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if cfg.GitHubToken != "" {
		t.Errorf("GitHubToken = %q, want empty", cfg.GitHubToken)
	}
	if cfg.DisableUpdateWarnings {
		t.Error("DisableUpdateWarnings = true, want false")
	}
	if cfg.DataDir == "" || cfg.CacheDir == "" || cfg.DefaultBinDir == "" {
		t.Errorf("path defaults should be populated: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_testtoken")
	t.Setenv("SUIUP_DISABLE_UPDATE_WARNINGS", "true")
	t.Setenv("SUIUP_DATA_DIR", "/tmp/suiup-data")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if cfg.GitHubToken != "ghp_testtoken" {
		t.Errorf("GitHubToken = %q, want %q", cfg.GitHubToken, "ghp_testtoken")
	}
	if !cfg.DisableUpdateWarnings {
		t.Error("DisableUpdateWarnings = false, want true")
	}
	if cfg.DataDir != "/tmp/suiup-data" {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, "/tmp/suiup-data")
	}
}

func TestLoadFlagOutranksEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("github-token", "", "")
	flags.Bool("disable-update-warnings", false, "")
	if err := flags.Set("github-token", "from-flag"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if cfg.GitHubToken != "from-flag" {
		t.Errorf("GitHubToken = %q, want %q", cfg.GitHubToken, "from-flag")
	}
}

func TestLoadUnsetFlagDoesNotShadowEnv(t *testing.T) {
	t.Setenv("SUIUP_DISABLE_UPDATE_WARNINGS", "true")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("github-token", "", "")
	flags.Bool("disable-update-warnings", false, "")

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}

	if !cfg.DisableUpdateWarnings {
		t.Error("DisableUpdateWarnings = false, want true (env value shadowed by unset flag)")
	}
}

func TestStateAndBinariesPaths(t *testing.T) {
	t.Parallel()

	data := filepath.Join("some", "dir")
	if got, want := BinariesDir(data), filepath.Join(data, "binaries"); got != want {
		t.Errorf("BinariesDir = %q, want %q", got, want)
	}
	if got, want := StateFile(data), filepath.Join(data, "state.toml"); got != want {
		t.Errorf("StateFile = %q, want %q", got, want)
	}
}

func TestDataDirOverride(t *testing.T) {
	SetDataDirOverride("/override/data")
	t.Cleanup(Reset)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir: unexpected error: %v", err)
	}
	if got != "/override/data" {
		t.Errorf("DataDir = %q, want %q", got, "/override/data")
	}
}
