// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrNotTTY is returned by Run when stdout is not a terminal.
var ErrNotTTY = errors.New("interactive screen requires a terminal")

// Common key binding constants.
const (
	KeyCtrlC = "ctrl+c"
	KeyTab   = "tab"
	KeyEnter = "enter"
	KeyEsc   = "esc"
)

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts the TUI program with the given model in alternate screen mode
// and returns the final model.
func Run(m tea.Model) (tea.Model, error) {
	if !IsTTY() {
		return m, ErrNotTTY
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p.Run()
}
