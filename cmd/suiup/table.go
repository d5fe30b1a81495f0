// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MystenLabs/suiup/internal/binaries"
	"github.com/MystenLabs/suiup/internal/install"
)

// newTable builds a styled table with the shared palette applied.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// renderInstalledTable renders the installed-versions table with the active
// default marked.
func renderInstalledTable(rows []install.BinaryVersion) string {
	t := newTable("Binary", "Release", "Version", "Debug", "Default")
	for _, r := range rows {
		debug := ""
		if r.Debug {
			debug = "yes"
		}
		def := ""
		if r.Default {
			def = "*"
		}
		t.Row(r.BinaryName, r.NetworkRelease, r.Version, debug, def)
	}
	return t.Render()
}

// renderAvailableTable renders the closed set of installable binaries and
// their source repositories.
func renderAvailableTable() string {
	t := newTable("Binary", "Repository")
	for _, b := range binaries.All() {
		t.Row(b.String(), b.RepoURL())
	}
	return t.Render()
}
