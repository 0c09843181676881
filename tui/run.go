package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/sentinel/internal/monitor/engine"
)

// Run starts the interactive UI against a running engine and blocks until
// the user quits.
func Run(eng *engine.Engine) error {
	InitializeTUI()

	snapshots := eng.Store().Subscribe()
	defer eng.Store().Unsubscribe(snapshots)

	p := tea.NewProgram(
		NewModel(eng, snapshots),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
