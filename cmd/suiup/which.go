// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
)

// newWhichCommand creates the `suiup which` command.
func newWhichCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "which <binary>",
		Short: "Print the path of the active default binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			name, err := binaries.Parse(args[0])
			if err != nil {
				return err
			}

			path, err := install.NewInstaller(cfg).Which(name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
