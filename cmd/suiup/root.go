// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for suiup.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/config"
	"github.com/MystenLabs/suiup/internal/release"
	"github.com/MystenLabs/suiup/internal/selfupdate"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// cfg is the resolved configuration, populated before dispatch.
	cfg *config.Config

	// notifier carries the background check for a newer suiup release.
	notifier *selfupdate.Notifier

	// checkForUpdates fires the background update check. Package variable so
	// tests can observe when dispatch triggers it.
	checkForUpdates = startUpdateNotifier

	// rootCmd represents the base command when called without any subcommands.
	rootCmd = &cobra.Command{
		Use:   "suiup",
		Short: "Install and manage Mysten Labs binaries",
		Long: TitleStyle.Render("suiup") + SubtitleStyle.Render(" - version manager for sui, mvr, walrus, and site-builder") + `

suiup installs released binaries from GitHub, keeps multiple versions
side by side per release network (testnet, devnet, mainnet), and
switches the active default with a single command.

` + SubtitleStyle.Render("Examples:") + `
  suiup install sui                 Install the latest testnet sui
  suiup install sui@testnet-1.39.3  Install a pinned version
  suiup default set sui@mainnet     Switch the default to mainnet
  suiup show                        List installed versions
  suiup update                      Update everything to latest`,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			loaded, err := config.Load(c.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cfg = loaded

			if !cfg.DisableUpdateWarnings && shouldRunUpdateCheck(c) {
				checkForUpdates()
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().String("github-token", "", "GitHub API token for higher rate limits (env: GITHUB_TOKEN)")
	rootCmd.PersistentFlags().Bool("disable-update-warnings", false, "disable the check for newer suiup releases (env: SUIUP_DISABLE_UPDATE_WARNINGS)")

	rootCmd.AddCommand(
		newCleanupCommand(),
		newDefaultCommand(),
		newInstallCommand(),
		newListCommand(),
		newRemoveCommand(),
		newSelfCommand(),
		newShowCommand(),
		newSwitchCommand(),
		newUpdateCommand(),
		newWhichCommand(),
	)
}

// shouldRunUpdateCheck reports whether dispatching c should fire the
// background update check. Everything under `self` is excluded: those
// commands manage suiup itself and do their own version lookups.
func shouldRunUpdateCheck(c *cobra.Command) bool {
	for cur := c; cur != nil; cur = cur.Parent() {
		if cur.Name() == "self" {
			return false
		}
	}
	return true
}

// startUpdateNotifier launches the fire-and-forget check for a newer suiup
// release. The notifier itself is idempotent within one process.
func startUpdateNotifier() {
	if notifier == nil {
		clientOpts := []release.ClientOption{release.WithUserAgent("suiup/" + Version)}
		if cfg != nil && cfg.GitHubToken != "" {
			clientOpts = append(clientOpts, release.WithToken(cfg.GitHubToken))
		}
		client := release.NewClient("MystenLabs", "suiup", clientOpts...)
		notifier = selfupdate.NewNotifier(
			selfupdate.NewUpdater(Version, selfupdate.WithClient(client)),
			os.Stderr,
		)
	}
	notifier.Start()
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)

	// Give an in-flight update warning a short window to land; never block
	// process exit on it.
	if notifier != nil {
		notifier.Wait(250 * time.Millisecond)
	}

	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
