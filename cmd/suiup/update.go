// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
)

// newUpdateCommand creates the `suiup update` command.
func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update [binary]",
		Short: "Update installed binaries to the latest release on their network",
		Long: `Update installed binaries to the latest release on their network.

Only the active default of each binary is considered; the updated version
becomes the new default. Without an argument every binary with a default
is updated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var name *binaries.BinaryName
			if len(args) > 0 {
				b, err := binaries.Parse(args[0])
				if err != nil {
					return err
				}
				name = &b
			}

			updated, err := install.NewInstaller(cfg).Update(cmd.Context(), name)
			if err != nil {
				if errors.Is(err, install.ErrNotInstalled) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to update. Run `suiup install <binary>` first.")
					return nil
				}
				return err
			}

			if len(updated) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Everything is up to date.")
				return nil
			}
			for _, b := range updated {
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(
					fmt.Sprintf("Updated %s to %s-v%s", b.Name, b.Network, b.Version)))
			}
			return nil
		},
	}
}
