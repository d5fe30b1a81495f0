// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
)

// newDefaultCommand creates the `suiup default` command group.
func newDefaultCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Get or set the default version of a binary",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <binary>",
			Short: "Show the default version of a binary",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cmd.SilenceUsage = true

				name, err := binaries.Parse(args[0])
				if err != nil {
					return err
				}

				installer := install.NewInstaller(cfg)
				state, err := installer.State()
				if err != nil {
					return err
				}
				entry, ok := state.DefaultFor(name.String())
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "No default set for %s. Run `suiup default set %s@<version>`.\n", name, name)
					return nil
				}

				path, err := installer.Which(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s-v%s (%s)\n", entry.Name, entry.Network, entry.Version, path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <binary>[@version]",
			Short: "Set the default version of a binary",
			Example: `  # Exact installed version
  suiup default set sui@testnet-1.39.3

  # Highest installed mainnet version
  suiup default set sui@mainnet`,
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
		},
	)

	return cmd
}
