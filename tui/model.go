package tui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/sentinel/internal/monitor/engine"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/registry"
	"github.com/grovetools/sentinel/state"
	"github.com/grovetools/sentinel/tui/theme"
)

// unitRef is a flattened reference to a single unit across all environments,
// used for cursor-based selection.
type unitRef struct {
	envIndex  int
	unitIndex int
}

// snapshotMsg carries a new snapshot published by the engine's store.
type snapshotMsg registry.Snapshot

// Model is the bubbletea model for the monitor UI.
type Model struct {
	engine    *engine.Engine
	snapshots <-chan registry.Snapshot
	snap      registry.Snapshot
	prefs     state.State

	// cursor indexes into the flattened list of all visible units.
	cursor int
	width  int
	height int

	keys  keyMap
	theme *theme.Theme
}

// NewModel builds the UI model against a running engine. The caller owns the
// store subscription and must unsubscribe after the program exits.
func NewModel(eng *engine.Engine, snapshots <-chan registry.Snapshot) Model {
	prefs, err := state.Load()
	if err != nil {
		prefs = state.State{}
	}
	return Model{
		engine:    eng,
		snapshots: snapshots,
		snap:      eng.Store().Latest(),
		prefs:     prefs,
		keys:      defaultKeyMap,
		theme:     theme.DefaultTheme,
	}
}

// Init starts listening for snapshot updates.
func (m Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

// waitForSnapshot blocks on the store subscription and wraps the next
// snapshot as a message. Rescheduled after every receive.
func (m Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-m.snapshots
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snap = registry.Snapshot(msg)
		m.clampCursor()
		return m, m.waitForSnapshot()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.engine.Refresh()

	case key.Matches(msg, m.keys.Down):
		m.selectNext()

	case key.Matches(msg, m.keys.Up):
		m.selectPrev()

	case key.Matches(msg, m.keys.MuteSound):
		m.engine.ToggleGlobalSound()

	case key.Matches(msg, m.keys.MuteBanner):
		m.engine.ToggleGlobalBanner()

	case key.Matches(msg, m.keys.UnitMuteSound):
		if env, unit, ok := m.selectedUnit(); ok {
			m.engine.ToggleUnitSound(notify.UnitKey{EnvID: env.ID, Unit: unit.Name})
		}

	case key.Matches(msg, m.keys.UnitMuteBanner):
		if env, unit, ok := m.selectedUnit(); ok {
			m.engine.ToggleUnitBanner(notify.UnitKey{EnvID: env.ID, Unit: unit.Name})
		}

	case key.Matches(msg, m.keys.Open):
		m.openSelectedBrowser()

	case key.Matches(msg, m.keys.Stop):
		if env, _, ok := m.selectedUnit(); ok {
			_ = m.engine.Terminate(env.ID)
		}

	case key.Matches(msg, m.keys.Collapse):
		if env, _, ok := m.selectedUnit(); ok {
			m.prefs.ToggleCollapsed(env.ID)
			m.clampCursor()
			m.savePrefs()
		}
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.selectPrev()
	case tea.MouseButtonWheelDown:
		m.selectNext()
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			break
		}
		c := m.buildContent()
		clicked := m.scrollOffset(c) + msg.Y
		if clicked >= 0 && clicked < len(c.lineToUnit) {
			if idx := c.lineToUnit[clicked]; idx >= 0 {
				m.cursor = idx
			}
		}
	}
	return m, nil
}

// visibleUnits flattens the snapshot into the unit list the cursor walks.
// Collapsed environments contribute no units.
func (m Model) visibleUnits() []unitRef {
	var refs []unitRef
	for envI, env := range m.snap.Environments {
		if m.prefs.Collapsed(env.ID) {
			continue
		}
		for unitI := range env.Units {
			refs = append(refs, unitRef{envIndex: envI, unitIndex: unitI})
		}
	}
	return refs
}

func (m *Model) selectNext() {
	if total := len(m.visibleUnits()); total > 0 && m.cursor < total-1 {
		m.cursor++
	}
}

func (m *Model) selectPrev() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) clampCursor() {
	total := len(m.visibleUnits())
	if total == 0 {
		m.cursor = 0
	} else if m.cursor >= total {
		m.cursor = total - 1
	}
}

// selectedUnit resolves the cursor to its environment and unit.
func (m Model) selectedUnit() (registry.Environment, registry.Unit, bool) {
	refs := m.visibleUnits()
	if m.cursor < 0 || m.cursor >= len(refs) {
		return registry.Environment{}, registry.Unit{}, false
	}
	r := refs[m.cursor]
	env := m.snap.Environments[r.envIndex]
	return env, env.Units[r.unitIndex], true
}

// openSelectedBrowser opens http://localhost:<port> for the selected unit,
// when it has a mapped port.
func (m Model) openSelectedBrowser() {
	env, unit, ok := m.selectedUnit()
	if !ok {
		return
	}
	port, ok := env.PortFor(unit.Name)
	if !ok {
		return
	}

	url := fmt.Sprintf("http://localhost:%d", port)
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

func (m Model) savePrefs() {
	// Best-effort: losing UI preferences is not worth surfacing an error
	// over the alternate screen.
	_ = state.Save(m.prefs)
}
