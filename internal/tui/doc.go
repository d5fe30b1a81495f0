// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive terminal prompts used by suiup,
// built on Bubble Tea. Prompts degrade gracefully when stdin is not a
// terminal.
package tui
