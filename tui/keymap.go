package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings for the monitor UI.
type keyMap struct {
	Quit           key.Binding
	Refresh        key.Binding
	Up             key.Binding
	Down           key.Binding
	MuteSound      key.Binding
	MuteBanner     key.Binding
	UnitMuteSound  key.Binding
	UnitMuteBanner key.Binding
	Open           key.Binding
	Stop           key.Binding
	Collapse       key.Binding
}

var defaultKeyMap = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	MuteSound: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mute"),
	),
	MuteBanner: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notif off"),
	),
	UnitMuteSound: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "unit-mute"),
	),
	UnitMuteBanner: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "unit-notif"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "collapse"),
	),
}
