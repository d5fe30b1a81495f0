// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
	"github.com/MystenLabs/suiup/internal/tui"
)

// newRemoveCommand creates the `suiup remove` command.
func newRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <binary>",
		Short: "Remove installed versions of a binary",
		Long: `Remove installed versions of a binary.

Without --version, every installed version of the binary is removed along
with its default selection. With --version, only that exact version goes.`,
		Example: `  # Remove all installed sui versions
  suiup remove sui

  # Remove one version only
  suiup remove sui --version 1.39.3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			name, err := binaries.Parse(args[0])
			if err != nil {
				return err
			}
			version, _ := cmd.Flags().GetString("version")
			yes, _ := cmd.Flags().GetBool("yes")

			if !yes {
				what := fmt.Sprintf("all installed versions of %s", name)
				if version != "" {
					what = fmt.Sprintf("%s %s", name, version)
				}
				confirmed, err := tui.Confirm(tui.ConfirmOptions{
					Title: fmt.Sprintf("Remove %s?", what),
				})
				if err != nil {
					return fmt.Errorf("confirmation prompt: %w", err)
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			removed, err := install.NewInstaller(cfg).Remove(name, version)
			if err != nil {
				return err
			}

			for _, b := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s-v%s\n", b.Name, b.Network, b.Version)
			}
			return nil
		},
	}

	cmd.Flags().String("version", "", "Remove only this exact version")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}
