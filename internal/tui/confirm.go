// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type (
	// ConfirmOptions configures the Confirm prompt.
	ConfirmOptions struct {
		// Title is the question to display.
		Title string
		// Description is shown below the title, e.g. the paths about to be removed.
		Description string
		// Affirmative is the text for the affirmative option (default: "Yes").
		Affirmative string
		// Negative is the text for the negative option (default: "No").
		Negative string
		// Default is the preselected answer.
		Default bool
		// Config holds the terminal configuration.
		Config Config
	}

	// confirmModel is the bubbletea model behind Confirm.
	confirmModel struct {
		title       string
		description string
		affirmative string
		negative    string
		selection   bool
		width       int
		done        bool
		cancelled   bool
	}
)

var (
	confirmTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	confirmDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	confirmActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7C3AED")).Bold(true).Padding(0, 1)
	confirmInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	confirmHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newConfirmModel(opts ConfirmOptions) *confirmModel {
	m := &confirmModel{
		title:       opts.Title,
		description: opts.Description,
		affirmative: opts.Affirmative,
		negative:    opts.Negative,
		selection:   opts.Default,
		width:       opts.Config.Width,
	}
	if m.affirmative == "" {
		m.affirmative = "Yes"
	}
	if m.negative == "" {
		m.negative = "No"
	}
	return m
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
		case keyCtrlC, "esc":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "y", "Y":
			m.selection = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.selection = false
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.selection = true
		case "right", "l":
			m.selection = false
		case "up", "down", "tab", "shift+tab":
			m.selection = !m.selection
		case "enter", " ":
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

	yesView := confirmInactiveStyle.Render(m.affirmative)
	noView := confirmInactiveStyle.Render(m.negative)
	if m.selection {
		yesView = confirmActiveStyle.Render(m.affirmative)
	} else {
		noView = confirmActiveStyle.Render(m.negative)
	}

	lines := make([]string, 0, 4)
	if m.title != "" {
		lines = append(lines, confirmTitleStyle.Render(m.title))
	}
	if m.description != "" {
		lines = append(lines, confirmDescStyle.Render(m.description))
	}
	lines = append(lines,
		yesView+"  "+noView,
		confirmHelpStyle.Render("enter submit • y yes • n no • esc cancel"),
	)

	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

// result returns the chosen answer, or ErrCancelled.
func (m *confirmModel) result() (bool, error) {
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.selection, nil
}

// Confirm asks a yes/no question and blocks until it is answered.
// It returns ErrCancelled if the user pressed esc or ctrl+c.
func Confirm(opts ConfirmOptions) (bool, error) {
	cfg := opts.Config
	if cfg.Input == nil || cfg.Output == nil {
		def := DefaultConfig()
		if cfg.Input == nil {
			cfg.Input = def.Input
		}
		if cfg.Output == nil {
			cfg.Output = def.Output
		}
	}

	p := tea.NewProgram(newConfirmModel(opts), tea.WithInput(cfg.Input), tea.WithOutput(cfg.Output))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running confirm prompt: %w", err)
	}
	m, ok := final.(*confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected confirm model %T", final)
	}
	return m.result()
}
