package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/registry"
)

// content holds rendered lines plus a per-line mapping back to the flat unit
// index, used to resolve mouse clicks. Header and separator lines map to -1.
type content struct {
	lines      []string
	lineToUnit []int
}

// stateStyle returns the color style for a unit state.
func (m Model) stateStyle(s registry.State) lipgloss.Style {
	switch s.Kind {
	case registry.KindRunning, registry.KindReady:
		return lipgloss.NewStyle().Foreground(m.theme.Colors.Green)
	case registry.KindBuilding, registry.KindStarting:
		return lipgloss.NewStyle().Foreground(m.theme.Colors.Yellow)
	case registry.KindFailed:
		return lipgloss.NewStyle().Foreground(m.theme.Colors.Red)
	case registry.KindStopped:
		return m.theme.Muted
	default:
		return m.theme.Normal
	}
}

// buildContent renders every environment card into lines. The cursor and
// scroll window are applied later, in View.
func (m Model) buildContent() content {
	var c content
	view := m.engine.PolicyView()

	if len(m.snap.Environments) == 0 {
		c.lines = append(c.lines, m.theme.Muted.Render("No environments found."))
		c.lineToUnit = append(c.lineToUnit, -1)
		return c
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	separator := m.theme.Separator.Render(strings.Repeat("─", width))

	flatOffset := 0
	for i, env := range m.snap.Environments {
		if i > 0 {
			c.lines = append(c.lines, separator)
			c.lineToUnit = append(c.lineToUnit, -1)
		}
		collapsed := m.prefs.Collapsed(env.ID)
		m.renderEnv(&c, env, view, flatOffset, collapsed)
		if !collapsed {
			flatOffset += len(env.Units)
		}
	}

	return c
}

func (m Model) renderEnv(c *content, env registry.Environment, view notify.PolicyView, flatOffset int, collapsed bool) {
	// Header line: alive indicator + name + elapsed
	var header strings.Builder
	if env.Alive {
		header.WriteString(m.theme.Success.Render("● "))
	} else {
		header.WriteString(m.theme.Muted.Render("○ "))
	}
	header.WriteString(m.theme.Bold.Render(env.DisplayName()))
	if elapsed := env.Elapsed(time.Now()); elapsed != "" {
		header.WriteString(m.theme.Muted.Render("  " + elapsed))
	}
	if collapsed {
		header.WriteString(m.theme.Muted.Render(fmt.Sprintf("  [%d units hidden]", len(env.Units))))
	}
	c.lines = append(c.lines, header.String())
	c.lineToUnit = append(c.lineToUnit, -1)

	// Directory on a second line, dimmed
	c.lines = append(c.lines, m.theme.Muted.Render("  "+env.Dir))
	c.lineToUnit = append(c.lineToUnit, -1)

	if collapsed {
		return
	}

	// Column widths are computed per environment, like the cards they form.
	maxNameLen := 0
	maxStateLen := 0
	hasAnyPort := false
	for _, u := range env.Units {
		if len(u.Name) > maxNameLen {
			maxNameLen = len(u.Name)
		}
		if l := len(u.State.String()); l > maxStateLen {
			maxStateLen = l
		}
		if _, ok := env.PortFor(u.Name); ok {
			hasAnyPort = true
		}
	}
	// Ports render as ":<port>", at most 6 chars.
	portColW := 0
	if hasAnyPort {
		portColW = 6
	}

	for i, unit := range env.Units {
		flatIndex := flatOffset + i
		key := notify.UnitKey{EnvID: env.ID, Unit: unit.Name}
		isSelected := flatIndex == m.cursor
		isMuted := view.SoundMutedFor(key)
		isNotifOff := view.BannerMutedFor(key)

		var line strings.Builder

		if isSelected {
			line.WriteString(m.theme.Cursor.Render("> "))
		} else {
			line.WriteString("  ")
		}

		// Per-unit status icons (mute + notification)
		if isMuted {
			line.WriteString(m.theme.Muted.Render("🔇"))
		} else {
			line.WriteString("🔊")
		}
		if isNotifOff {
			line.WriteString(m.theme.Muted.Render("🔕"))
		} else {
			line.WriteString("🔔")
		}
		line.WriteString(" ")

		st := m.stateStyle(unit.State)
		line.WriteString(st.Render(unit.State.Indicator()))
		line.WriteString(" ")

		name := fmt.Sprintf("%-*s", maxNameLen, unit.Name)
		if isMuted {
			line.WriteString(m.theme.Muted.Render(name))
		} else {
			line.WriteString(name)
		}
		line.WriteString("  ")

		if hasAnyPort {
			if port, ok := env.PortFor(unit.Name); ok {
				line.WriteString(m.theme.Highlight.Render(fmt.Sprintf("%-*s", portColW, fmt.Sprintf(":%d", port))))
			} else {
				line.WriteString(strings.Repeat(" ", portColW))
			}
			line.WriteString("  ")
		}

		line.WriteString(st.Render(fmt.Sprintf("%-*s", maxStateLen, unit.State.String())))

		if unit.Detail != "" {
			line.WriteString(m.theme.Muted.Render("  " + unit.Detail))
		}

		c.lines = append(c.lines, line.String())
		c.lineToUnit = append(c.lineToUnit, flatIndex)
	}
}

// contentHeight is the number of rows available above the footer.
func (m Model) contentHeight(c content) int {
	h := m.height - 1
	if h < 1 {
		h = len(c.lines)
	}
	return h
}

// scrollOffset computes the window start that keeps the selected unit
// visible. Pure function of the cursor so View and mouse handling agree.
func (m Model) scrollOffset(c content) int {
	contentHeight := m.contentHeight(c)

	scroll := 0
	for i, u := range c.lineToUnit {
		if u == m.cursor {
			if i >= contentHeight {
				scroll = i - contentHeight + 1
			}
			break
		}
	}
	if max := len(c.lines) - contentHeight; scroll > max {
		scroll = max
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}

// View renders the visible window of content plus a one-line footer.
func (m Model) View() string {
	c := m.buildContent()
	contentHeight := m.contentHeight(c)
	scroll := m.scrollOffset(c)

	end := scroll + contentHeight
	if end > len(c.lines) {
		end = len(c.lines)
	}

	var b strings.Builder
	for _, line := range c.lines[scroll:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := end - scroll; i < contentHeight; i++ {
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	return b.String()
}

func (m Model) footer() string {
	view := m.engine.PolicyView()

	var parts []string
	if view.SoundMuted {
		parts = append(parts, m.theme.Warning.Render("🔇 MUTED  "))
	}
	if view.BannerMuted {
		parts = append(parts, m.theme.Warning.Render("NOTIF OFF  "))
	}

	muteLabel := "m mute"
	if view.SoundMuted {
		muteLabel = "m unmute"
	}
	notifLabel := "n notif off"
	if view.BannerMuted {
		notifLabel = "n notif on"
	}
	parts = append(parts, m.theme.Muted.Render(fmt.Sprintf(
		"q quit  r refresh  j/k select  %s  %s  M unit-mute  N unit-notif  c collapse  o open  x stop",
		muteLabel, notifLabel,
	)))

	footer := strings.Join(parts, "")
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, footer)
	}
	return footer
}
