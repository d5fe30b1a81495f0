// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
	"github.com/MystenLabs/suiup/internal/tui"
)

// installParams bundles the dependencies and flags for the install command,
// so runInstall can be tested without a real Cobra command or network.
type installParams struct {
	stdout    io.Writer
	installer *install.Installer
	spec      string
	debug     bool
	yes       bool
	nightly   string // branch to build from source; empty = release install
}

// newInstallCommand creates the `suiup install` command.
func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <binary>[@version]",
		Short: "Install a binary release",
		Long: `Install a binary release from its GitHub repository.

The version may pin a network ("sui@mainnet"), a network release
("sui@testnet-1.39.3"), or a bare version on the default testnet network
("sui@1.39.3"). Without a version, the latest testnet release is installed.`,
		Example: `  # Latest testnet sui
  suiup install sui

  # A pinned testnet release
  suiup install sui@testnet-1.39.3

  # Latest mainnet walrus
  suiup install walrus@mainnet

  # Debug build of sui
  suiup install sui --debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			debug, _ := cmd.Flags().GetBool("debug")
			yes, _ := cmd.Flags().GetBool("yes")
			nightly := ""
			if cmd.Flags().Changed("nightly") {
				nightly, _ = cmd.Flags().GetString("nightly")
			}

			p := installParams{
				stdout:    cmd.OutOrStdout(),
				installer: install.NewInstaller(cfg),
				spec:      args[0],
				debug:     debug,
				yes:       yes,
				nightly:   nightly,
			}
			return runInstall(cmd.Context(), p)
		},
	}

	cmd.Flags().Bool("debug", false, "Install the debug build (sui only)")
	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompts")
	cmd.Flags().String("nightly", "", "Build from source at the given branch instead of a release")
	cmd.Flags().Lookup("nightly").NoOptDefVal = "main"

	return cmd
}

// runInstall is the core install logic, separated from Cobra for testability.
func runInstall(ctx context.Context, p installParams) error {
	meta, err := binaries.ParseComponentWithVersion(p.spec)
	if err != nil {
		return err
	}

	if p.nightly != "" {
		return printNightlyGuidance(p.stdout, meta.Name, p.nightly)
	}

	if p.debug && meta.Name != binaries.Sui {
		return fmt.Errorf("debug builds are only published for sui, not %s", meta.Name)
	}

	// Installing over an existing default is the one destructive step, so it
	// gets a prompt; fresh installs always become the default.
	makeDefault := true
	state, err := p.installer.State()
	if err != nil {
		return err
	}
	if _, hasDefault := state.Defaults[meta.Name.String()]; hasDefault && !p.yes {
		confirmed, err := tui.Confirm(tui.ConfirmOptions{
			Title:       fmt.Sprintf("Make this version the default %s?", meta.Name),
			Description: "The current default will be replaced.",
			Default:     true,
		})
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		makeDefault = confirmed
	}

	fmt.Fprintf(p.stdout, "Installing %s (%s)...\n", meta.Name, describeSpec(meta))

	entry, err := p.installer.Install(ctx, meta, p.debug, makeDefault)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.stdout, SuccessStyle.Render(
		fmt.Sprintf("Installed %s %s-v%s", entry.Name, entry.Network, entry.Version)))
	if makeDefault {
		fmt.Fprintf(p.stdout, "%s is now the default %s\n", entry.Version, entry.Name)
	}
	return nil
}

// printNightlyGuidance explains the source-build path. suiup itself only
// manages released binaries; nightly builds go through cargo.
func printNightlyGuidance(w io.Writer, b binaries.BinaryName, branch string) error {
	fmt.Fprintln(w, WarningStyle.Render("Nightly builds are compiled from source and require cargo."))
	fmt.Fprintf(w, "\nInstall Rust from https://rustup.rs, then run:\n")
	fmt.Fprintf(w, "  cargo install --git %s --branch %s %s\n", b.RepoURL(), branch, b)
	return nil
}

// describeSpec renders a parsed specifier for progress output.
func describeSpec(meta binaries.CommandMetadata) string {
	if meta.Version == nil {
		return "latest " + meta.Network
	}
	return meta.Network + "-v" + *meta.Version
}
