// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// ErrCancelled is returned when the user aborts a prompt (esc or ctrl+c).
var ErrCancelled = errors.New("cancelled")

// isTerminal is a test seam; the default requires both ends of the prompt
// to be a real terminal.
var isTerminal = func() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

type (
	// ConfirmOptions configures a yes/no prompt.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description provides additional context below the title.
		Description string
		// Affirmative is the text for the affirmative option (default: "Yes").
		Affirmative string
		// Negative is the text for the negative option (default: "No").
		Negative string
		// Default is the pre-selected answer, and the answer used when no
		// terminal is attached.
		Default bool
	}

	confirmModel struct {
		opts      ConfirmOptions
		selection bool
		done      bool
		cancelled bool
		width     int
	}
)

func newConfirmModel(opts ConfirmOptions) *confirmModel {
	if opts.Affirmative == "" {
		opts.Affirmative = "Yes"
	}
	if opts.Negative == "" {
		opts.Negative = "No"
	}
	return &confirmModel{
		opts:      opts,
		selection: opts.Default,
	}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "y":
			m.selection = true
			m.done = true
			return m, tea.Quit
		case "n":
			m.selection = false
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.selection = true
		case "right", "l":
			m.selection = false
		case "up", "down", "tab", "shift+tab":
			m.selection = !m.selection
		case "enter", " ", "space":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4DA2FF"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#4DA2FF")).Bold(true).Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	yesView := inactiveStyle.Render(m.opts.Affirmative)
	noView := inactiveStyle.Render(m.opts.Negative)
	if m.selection {
		yesView = activeStyle.Render(m.opts.Affirmative)
	} else {
		noView = activeStyle.Render(m.opts.Negative)
	}

	lines := make([]string, 0, 4)
	if m.opts.Title != "" {
		lines = append(lines, titleStyle.Render(m.opts.Title))
	}
	if m.opts.Description != "" {
		lines = append(lines, descStyle.Render(m.opts.Description))
	}
	lines = append(lines,
		yesView+"  "+noView,
		helpStyle.Render("enter submit • y yes • n no • esc cancel"),
	)

	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

// Confirm prompts the user for a yes/no answer. Without a terminal the
// prompt is skipped and the default answer is returned, so scripted runs
// behave like passing --yes.
func Confirm(opts ConfirmOptions) (bool, error) {
	if !isTerminal() {
		return opts.Default, nil
	}

	final, err := tea.NewProgram(newConfirmModel(opts)).Run()
	if err != nil {
		return false, err
	}

	m := final.(*confirmModel)
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.selection, nil
}
