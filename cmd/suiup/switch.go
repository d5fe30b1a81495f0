// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
)

// newSwitchCommand creates the `suiup switch` command.
func newSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <binary>[@version]",
		Short: "Switch the default to an already-installed version",
		Example: `  # Highest installed testnet version
  suiup switch sui

  # An exact installed version
  suiup switch sui@testnet-1.39.3

  # Highest installed mainnet version
  suiup switch sui@mainnet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			meta, err := binaries.ParseComponentWithVersion(args[0])
			if err != nil {
				return err
			}

			entry, err := install.NewInstaller(cfg).SwitchDefault(meta)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(
				fmt.Sprintf("Default %s is now %s-v%s", entry.Name, entry.Network, entry.Version)))
			return nil
		},
	}
}
