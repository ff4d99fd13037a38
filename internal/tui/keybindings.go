package tui

import "github.com/charmbracelet/bubbles/key"

// TimerKeyMap defines the key bindings of the session timer screen.
type TimerKeyMap struct {
	Start   key.Binding
	Pause   key.Binding
	Finish  key.Binding
	Suggest key.Binding
	Notes   key.Binding
	Blur    key.Binding
	Quit    key.Binding
}

// DefaultTimerKeyMap provides the default timer key bindings.
var DefaultTimerKeyMap = TimerKeyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p/space", "pause/resume"),
	),
	Finish: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "finish"),
	),
	Suggest: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "suggest activity"),
	),
	Notes: key.NewBinding(
		key.WithKeys("n", "tab"),
		key.WithHelp("n", "edit notes"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "done editing"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k TimerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Finish, k.Suggest, k.Notes, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k TimerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Finish},
		{k.Suggest, k.Notes, k.Blur, k.Quit},
	}
}
