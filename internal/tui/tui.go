package tui

import (
	"storyboard-cli/internal/state"
	"storyboard-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the interactive navigation TUI over a workspace.
func Run(ws store.Store, st *state.Store) error {
	m := newAppModel(ws, st)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
