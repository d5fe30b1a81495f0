// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/install"
)

// newListCommand creates the `suiup list` command.
func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available binaries",
		Long: `List the binaries suiup can install and their source repositories.

With --installed, list the locally installed versions instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			installed, _ := cmd.Flags().GetBool("installed")
			if !installed {
				fmt.Fprintln(cmd.OutOrStdout(), renderAvailableTable())
				return nil
			}

			state, err := install.NewInstaller(cfg).State()
			if err != nil {
				return err
			}
			rows := state.Rows()
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No binaries installed. Run `suiup install <binary>` to get started.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderInstalledTable(rows))
			return nil
		},
	}

	cmd.Flags().Bool("installed", false, "List installed versions instead of available binaries")

	return cmd
}
