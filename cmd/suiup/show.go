// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/install"
)

// newShowCommand creates the `suiup show` command.
func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show installed versions and the active defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

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
}
