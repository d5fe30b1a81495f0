// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/release"
	"github.com/MystenLabs/suiup/internal/selfupdate"
	"github.com/MystenLabs/suiup/internal/tui"
)

// selfUpdateParams bundles the dependencies and flags for the self update
// command, enabling the core logic in runSelfUpdate to be tested without a
// real Cobra command or live GitHub API calls.
type selfUpdateParams struct {
	stdout  io.Writer
	stderr  io.Writer
	updater *selfupdate.Updater
	target  string // target version (empty = latest)
	check   bool   // --check mode: report availability without installing
	yes     bool   // --yes flag: skip confirmation prompt
}

// newSelfCommand creates the `suiup self` command group. Commands in this
// group never trigger the background update check: they query suiup's own
// releases directly.
func newSelfCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Manage the suiup installation itself",
	}
	cmd.AddCommand(newSelfUpdateCommand(), newSelfUninstallCommand())
	return cmd
}

// newSelfUpdateCommand creates the `suiup self update` command, which
// updates the suiup binary to the latest stable release or a specific
// version from GitHub Releases.
func newSelfUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [version]",
		Short: "Update suiup to the latest stable release or a specific version",
		Long: `Update suiup to the latest stable release or a specific version.

The command downloads the new binary from GitHub Releases, verifies its
SHA256 checksum, and atomically replaces the current binary.

If suiup was installed via Homebrew or go install, the command suggests
using the appropriate package manager instead.`,
		Example: `  # Update to latest stable
  suiup self update

  # Check for updates without installing
  suiup self update --check

  # Update to a specific version
  suiup self update v1.2.0

  # Skip confirmation prompt
  suiup self update --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			checkFlag, _ := cmd.Flags().GetBool("check")
			yesFlag, _ := cmd.Flags().GetBool("yes")

			var target string
			if len(args) > 0 {
				target = args[0]
			}

			clientOpts := []release.ClientOption{release.WithUserAgent("suiup/" + Version)}
			if cfg.GitHubToken != "" {
				clientOpts = append(clientOpts, release.WithToken(cfg.GitHubToken))
			}
			client := release.NewClient("MystenLabs", "suiup", clientOpts...)

			p := selfUpdateParams{
				stdout:  cmd.OutOrStdout(),
				stderr:  cmd.ErrOrStderr(),
				updater: selfupdate.NewUpdater(Version, selfupdate.WithClient(client)),
				target:  target,
				check:   checkFlag,
				yes:     yesFlag,
			}

			if err := runSelfUpdate(cmd.Context(), p); err != nil {
				fmt.Fprintln(p.stderr, formatSelfUpdateError(err))
				return &ExitError{Code: classifySelfUpdateExitCode(err), Err: err}
			}
			return nil
		},
	}

	cmd.Flags().Bool("check", false, "Check for an available update without installing")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// runSelfUpdate is the core update logic, separated from Cobra for
// testability. All user-facing output goes through p.stdout and p.stderr.
//
// Flow:
//  1. Check for an available update via the GitHub API.
//  2. If the install is managed (Homebrew/go install), print guidance and return.
//  3. If already up-to-date, print status and return.
//  4. If --check, print availability and the release notes, then return.
//  5. Otherwise, confirm with the user (unless --yes), download, verify, and replace.
func runSelfUpdate(ctx context.Context, p selfUpdateParams) error {
	check, err := p.updater.Check(ctx, p.target)
	if err != nil {
		return fmt.Errorf("checking for update: %w", err)
	}

	// Managed installs (Homebrew, go install) should use their respective
	// package managers. The Check method returns a pre-formatted message.
	if check.InstallMethod == selfupdate.InstallMethodHomebrew ||
		check.InstallMethod == selfupdate.InstallMethodGoInstall {
		fmt.Fprintln(p.stdout, check.Message)
		return nil
	}

	// No update available: already up-to-date or running a pre-release ahead
	// of the latest stable version.
	if !check.UpgradeAvailable {
		fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
		if check.LatestVersion != "" {
			fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)
		}
		fmt.Fprintf(p.stdout, "\n%s\n", check.Message)
		return nil
	}

	// Update available, check-only mode: report and exit without installing.
	if p.check {
		fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
		fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)
		fmt.Fprintf(p.stdout, "\nAn update is available: %s → %s\n", check.CurrentVersion, check.LatestVersion)
		printReleaseNotes(p.stdout, check.TargetRelease)
		fmt.Fprintln(p.stdout, "Run 'suiup self update' to install.")
		return nil
	}

	// Update available, apply mode: confirm, download, verify, and replace.
	fmt.Fprintf(p.stdout, "Current version: %s\n", check.CurrentVersion)
	fmt.Fprintf(p.stdout, "Latest version:  %s\n", check.LatestVersion)

	if !p.yes {
		confirmed, confirmErr := tui.Confirm(tui.ConfirmOptions{
			Title:   fmt.Sprintf("Update suiup from %s to %s?", check.CurrentVersion, check.LatestVersion),
			Default: true,
		})
		if confirmErr != nil {
			return fmt.Errorf("confirmation prompt: %w", confirmErr)
		}
		if !confirmed {
			return nil
		}
	}

	fmt.Fprintf(p.stdout, "\nDownloading suiup %s...\n", check.LatestVersion)

	if err := p.updater.Apply(ctx, check.TargetRelease); err != nil {
		return fmt.Errorf("applying update: %w", err)
	}

	fmt.Fprintln(p.stdout, "Verifying checksum... OK")
	fmt.Fprintln(p.stdout, "Replacing binary...  OK")
	fmt.Fprintln(p.stdout, SuccessStyle.Render(fmt.Sprintf("Successfully updated to %s", check.LatestVersion)))

	return nil
}

// printReleaseNotes renders the release body markdown. Rendering is
// best-effort: a failure just drops the notes.
func printReleaseNotes(w io.Writer, rel *release.Release) {
	if rel == nil || rel.Body == "" {
		return
	}
	notes, err := glamour.Render(rel.Body, "auto")
	if err != nil {
		return
	}
	fmt.Fprintln(w, notes)
}

// newSelfUninstallCommand creates the `suiup self uninstall` command.
func newSelfUninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove suiup and everything it installed",
		Long: `Remove suiup and everything it installed: the data directory with all
installed binaries and the state file, the download cache, and the suiup
binary itself.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			yes, _ := cmd.Flags().GetBool("yes")
			return runSelfUninstall(cmd.OutOrStdout(), yes)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}

// runSelfUninstall removes the data and cache directories and then the
// running binary. Binary removal comes last so a failure midway leaves a
// working suiup behind.
func runSelfUninstall(stdout io.Writer, yes bool) error {
	if !yes {
		confirmed, err := tui.Confirm(tui.ConfirmOptions{
			Title:       "Uninstall suiup?",
			Description: "All installed binaries and state will be deleted.",
		})
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !confirmed {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	for _, dir := range []string{cfg.DataDir, cfg.CacheDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		fmt.Fprintf(stdout, "Removed %s\n", dir)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating suiup binary: %w", err)
	}
	if err := os.Remove(exe); err != nil {
		fmt.Fprintln(stdout, WarningStyle.Render(
			fmt.Sprintf("Could not remove %s: %v. Delete it manually.", exe, err)))
		return nil
	}
	fmt.Fprintf(stdout, "Removed %s\n", exe)
	fmt.Fprintln(stdout, SuccessStyle.Render("suiup has been uninstalled."))
	return nil
}

// classifySelfUpdateExitCode maps an update error to the process exit code.
// Permission errors and missing releases use exit code 1 (user-correctable);
// all other failures use exit code 2 (unexpected/transient).
func classifySelfUpdateExitCode(err error) int {
	switch {
	case errors.Is(err, os.ErrPermission):
		return 1
	case errors.Is(err, release.ErrReleaseNotFound):
		return 1
	default:
		return 2
	}
}

// formatSelfUpdateError produces a user-friendly error message with
// actionable remediation guidance tailored to the specific error type.
func formatSelfUpdateError(err error) string {
	var rateLimitErr *release.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Sprintf("%s\n\nTo increase your rate limit, set a GitHub token:\n  export GITHUB_TOKEN=ghp_...\nThen retry: suiup self update",
			rateLimitErr.Error())
	}

	var checksumErr *selfupdate.ChecksumError
	if errors.As(err, &checksumErr) {
		return fmt.Sprintf("checksum verification failed for %s\n\nExpected: %s\nGot:      %s\n\nThe download may be corrupted. Please try again.\nIf this persists, report at https://github.com/MystenLabs/suiup/issues",
			checksumErr.Filename, checksumErr.Expected, checksumErr.Got)
	}

	if errors.Is(err, os.ErrPermission) {
		return "insufficient permissions to replace the binary\n\nTry running with elevated privileges:\n  sudo suiup self update"
	}

	return fmt.Sprintf("%s\n\nCheck your network connection and try again.\nIf behind a firewall, set GITHUB_TOKEN for authenticated access.", err.Error())
}
