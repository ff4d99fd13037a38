package tui

// ============================================================================
// Timer Messages
// ============================================================================

// TickMsg refreshes the timer display. ID identifies the tick chain that
// produced it; ticks from a superseded chain are dropped.
type TickMsg struct {
	ID int
}

// SuggestionMsg carries the result of an asynchronous lesson suggestion.
type SuggestionMsg struct {
	Text string
	Err  error
}

// NotesSavedMsg reports the outcome of persisting the notes draft.
type NotesSavedMsg struct {
	Err error
}
