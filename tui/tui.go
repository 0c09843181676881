// Package tui is the interactive terminal frontend for the monitor. It
// renders the latest registry snapshot as a list of environment cards and
// drives the mute and signal controls.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI prepares the terminal environment before starting the
// program. It checks for environment variables that force color output
// (`CLICOLOR_FORCE`, `COLORTERM`) and sets the lipgloss color profile when
// present, so styling survives non-interactive and CI environments.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
