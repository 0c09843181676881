package tui

import (
	"testing"
	"time"

	"github.com/grovetools/sentinel/internal/monitor/engine"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/internal/monitor/watcher"
	"github.com/grovetools/sentinel/registry"
	"github.com/grovetools/sentinel/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T, snap registry.Snapshot) Model {
	t.Helper()
	dir := t.TempDir()
	eng := engine.New(dir, watcher.New(dir, time.Second), notify.NopSink{})
	m := NewModel(eng, nil)
	m.prefs = state.State{}
	m.snap = snap
	m.width = 80
	m.height = 24
	return m
}

func twoEnvSnapshot() registry.Snapshot {
	return registry.Snapshot{
		Environments: []registry.Environment{
			{
				ID:    "abc123",
				Dir:   "/tmp/alpha",
				Alive: true,
				Ports: map[string]uint16{"server": 3000},
				Units: []registry.Unit{
					{Name: "server", State: registry.StateReady, Port: 3000},
					{Name: "worker", State: registry.StateBuilding},
				},
			},
			{
				ID:  "def456",
				Dir: "/tmp/beta",
				Units: []registry.Unit{
					{Name: "db", State: registry.StateFailed, Detail: "exit 1"},
				},
			},
		},
	}
}

func TestVisibleUnitsFlattening(t *testing.T) {
	m := testModel(t, twoEnvSnapshot())

	refs := m.visibleUnits()
	require.Len(t, refs, 3)
	assert.Equal(t, unitRef{envIndex: 0, unitIndex: 0}, refs[0])
	assert.Equal(t, unitRef{envIndex: 1, unitIndex: 0}, refs[2])
}

func TestCollapsedEnvironmentHidesUnits(t *testing.T) {
	m := testModel(t, twoEnvSnapshot())
	m.prefs.ToggleCollapsed("abc123")

	refs := m.visibleUnits()
	require.Len(t, refs, 1)
	assert.Equal(t, unitRef{envIndex: 1, unitIndex: 0}, refs[0])
}

func TestSelectedUnitResolution(t *testing.T) {
	m := testModel(t, twoEnvSnapshot())

	m.cursor = 2
	env, unit, ok := m.selectedUnit()
	require.True(t, ok)
	assert.Equal(t, "def456", env.ID)
	assert.Equal(t, "db", unit.Name)

	m.cursor = 3
	_, _, ok = m.selectedUnit()
	assert.False(t, ok)
}

func TestClampCursorAfterShrink(t *testing.T) {
	m := testModel(t, twoEnvSnapshot())
	m.cursor = 2

	m.snap = registry.Snapshot{Environments: []registry.Environment{
		{ID: "abc123", Dir: "/tmp/alpha", Units: []registry.Unit{
			{Name: "server", State: registry.StateStopped},
		}},
	}}
	m.clampCursor()
	assert.Equal(t, 0, m.cursor)

	m.snap = registry.Snapshot{}
	m.clampCursor()
	assert.Equal(t, 0, m.cursor)
}

func TestBuildContentLineMapping(t *testing.T) {
	m := testModel(t, twoEnvSnapshot())

	c := m.buildContent()
	require.Equal(t, len(c.lines), len(c.lineToUnit))

	// First env: header, dir, two units. Separator. Second env: header,
	// dir, one unit.
	want := []int{-1, -1, 0, 1, -1, -1, -1, 2}
	assert.Equal(t, want, c.lineToUnit)
}

func TestBuildContentEmptySnapshot(t *testing.T) {
	m := testModel(t, registry.Snapshot{})

	c := m.buildContent()
	require.Len(t, c.lines, 1)
	assert.Contains(t, c.lines[0], "No environments found.")
}

func TestViewShowsPortAndDetail(t *testing.T) {
	m := testModel(t, twoEnvSnapshot())

	out := m.View()
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, ":3000")
	assert.Contains(t, out, "exit 1")
	assert.Contains(t, out, "q quit")
}

func TestFooterReflectsGlobalMutes(t *testing.T) {
	m := testModel(t, registry.Snapshot{})

	out := m.footer()
	assert.Contains(t, out, "m mute")
	assert.NotContains(t, out, "MUTED")

	m.engine.ToggleGlobalSound()
	m.engine.ToggleGlobalBanner()

	out = m.footer()
	assert.Contains(t, out, "MUTED")
	assert.Contains(t, out, "NOTIF OFF")
	assert.Contains(t, out, "m unmute")
	assert.Contains(t, out, "n notif on")
}
