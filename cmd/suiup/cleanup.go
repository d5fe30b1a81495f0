// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/install"
)

// newCleanupCommand creates the `suiup cleanup` command.
func newCleanupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete old cached release archives",
		Long: `Delete cached release archives older than the retention window
(default 30 days). Installed binaries are never touched.`,
		Example: `  # Drop archives older than 30 days
  suiup cleanup

  # Drop everything in the cache
  suiup cleanup --all

  # See what would be removed
  suiup cleanup --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			all, _ := cmd.Flags().GetBool("all")
			days, _ := cmd.Flags().GetInt("days")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := install.CleanCache(cfg.CacheDir, time.Duration(days)*24*time.Hour, all, dryRun)
			if err != nil {
				return err
			}

			if len(result.Removed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is already clean.")
				return nil
			}

			verb := "Removed"
			if result.DryRun {
				verb = "Would remove"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d cached archive(s), %s\n",
				verb, len(result.Removed), humanBytes(result.Bytes))
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Remove every cached archive regardless of age")
	cmd.Flags().Int("days", 30, "Remove archives older than this many days")
	cmd.Flags().Bool("dry-run", false, "Report what would be removed without deleting")

	return cmd
}

// humanBytes formats a byte count for display.
func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
