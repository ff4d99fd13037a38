// Package views provides TUI view components for the banca timer screen.
package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/banca-dev/banca/internal/lesson"
	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/tui"
	"github.com/banca-dev/banca/internal/ui"
)

// ============================================================================
// TimerModel
// ============================================================================

// TimerModel is the interactive screen for running a single lesson.
type TimerModel struct {
	ctl         *lesson.Controller
	session     model.ClassSession
	studentName string
	currency    string

	elapsed time.Duration
	tickID  int

	notes      textarea.Model
	spinner    spinner.Model
	help       help.Model
	keys       tui.TimerKeyMap
	suggestion string
	loading    bool

	err    error
	done   bool
	width  int
	height int
}

// NewTimerModel creates a TimerModel for the given session.
func NewTimerModel(ctl *lesson.Controller, session model.ClassSession, studentName, currency string) TimerModel {
	ta := textarea.New()
	ta.Placeholder = "Lesson notes..."
	ta.ShowLineNumbers = false
	ta.SetWidth(60)
	ta.SetHeight(4)
	ta.SetValue(session.Notes)
	ta.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = tui.WarningStyle

	m := TimerModel{
		ctl:         ctl,
		session:     session,
		studentName: studentName,
		currency:    currency,
		notes:       ta,
		spinner:     sp,
		help:        help.New(),
		keys:        tui.DefaultTimerKeyMap,
		width:       80,
		height:      24,
	}
	m.refresh()
	return m
}

// Init starts the tick chain when the session is already running.
func (m TimerModel) Init() tea.Cmd {
	if m.running() {
		return m.tick()
	}
	return nil
}

// Session returns the session as last seen by the screen.
func (m TimerModel) Session() model.ClassSession {
	return m.session
}

// Elapsed returns the displayed active time.
func (m TimerModel) Elapsed() time.Duration {
	return m.elapsed
}

// Suggestion returns the last lesson suggestion received.
func (m TimerModel) Suggestion() string {
	return m.suggestion
}

// Err returns the last error shown on screen.
func (m TimerModel) Err() error {
	return m.err
}

// Done reports whether the session was finished from this screen.
func (m TimerModel) Done() bool {
	return m.done
}

// Update handles messages for the timer view.
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if msg.Width > 10 {
			m.notes.SetWidth(min(msg.Width-6, 80))
		}
		return m, nil

	case tui.TickMsg:
		if msg.ID != m.tickID || !m.running() {
			return m, nil
		}
		m.refresh()
		return m, m.tick()

	case tui.SuggestionMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.suggestion = msg.Text
		return m, nil

	case tui.NotesSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.notes.Focused() {
			return m.handleNotesKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m TimerModel) handleNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case tui.KeyEsc:
		m.notes.Blur()
		m.saveNotes()
		return m, nil
	case tui.KeyCtrlC:
		m.saveNotes()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

func (m TimerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.saveNotes()
		m.tickID++
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		s, err := m.ctl.Start(m.session.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.session = s
		m.err = nil
		m.tickID++
		m.refresh()
		return m, m.tick()

	case key.Matches(msg, m.keys.Pause):
		return m.togglePause()

	case key.Matches(msg, m.keys.Finish):
		s, err := m.ctl.Finish(m.session.ID, m.notes.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.session = s
		m.done = true
		m.tickID++
		m.refresh()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Suggest):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.suggest())

	case key.Matches(msg, m.keys.Notes):
		if m.session.Status == model.StatusCompleted || m.session.Status == model.StatusCancelled {
			return m, nil
		}
		return m, m.notes.Focus()
	}
	return m, nil
}

func (m TimerModel) togglePause() (tea.Model, tea.Cmd) {
	if m.session.Status != model.StatusInProgress {
		return m, nil
	}
	if m.session.Paused {
		s, err := m.ctl.Resume(m.session.ID)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.session = s
		m.tickID++
		m.refresh()
		return m, m.tick()
	}
	s, err := m.ctl.Pause(m.session.ID)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.session = s
	m.tickID++
	m.refresh()
	return m, nil
}

// saveNotes persists the draft when it differs from the stored notes.
func (m *TimerModel) saveNotes() {
	draft := m.notes.Value()
	if draft == m.session.Notes || m.done {
		return
	}
	s, err := m.ctl.SetNotes(m.session.ID, draft)
	if err != nil {
		m.err = err
		return
	}
	m.session.Notes = s.Notes
}

func (m *TimerModel) refresh() {
	d, err := m.ctl.Elapsed(m.session.ID)
	if err != nil {
		m.err = err
		return
	}
	m.elapsed = d
}

func (m TimerModel) running() bool {
	return m.session.Running()
}

func (m TimerModel) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tui.TickMsg{ID: id}
	})
}

func (m TimerModel) suggest() tea.Cmd {
	ctl := m.ctl
	id := m.session.ID
	return func() tea.Msg {
		text, err := ctl.Suggest(context.Background(), id)
		return tui.SuggestionMsg{Text: text, Err: err}
	}
}

// View renders the timer view.
func (m TimerModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(m.studentName))
	b.WriteString("  ")
	b.WriteString(tui.StatusLabel(m.session.Status))
	if m.session.Paused {
		b.WriteString("  ")
		b.WriteString(tui.WarningStyle.Render("paused"))
	}
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("%s  session %s", m.session.Date, ui.ShortID(m.session.ID))))
	b.WriteString("\n\n")

	b.WriteString(tui.ClockStyle.Render(ui.FormatClock(m.elapsed)))
	b.WriteString("\n\n")

	if m.session.Status == model.StatusCompleted {
		b.WriteString(tui.SuccessStyle.Render(fmt.Sprintf("Finished: %d min, %s",
			m.session.DurationMinutes, ui.FormatMoney(m.currency, m.session.Cost))))
		b.WriteString("\n\n")
	}

	b.WriteString(tui.DimStyle.Render("Notes"))
	b.WriteString("\n")
	b.WriteString(m.notes.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" Asking the assistant...\n\n")
	case m.suggestion != "":
		width := m.width - 4
		if width < 20 {
			width = 20
		}
		b.WriteString(tui.SuggestionStyle.Width(width).Render(m.suggestion))
		b.WriteString("\n\n")
	}

	if m.err != nil {
		b.WriteString(tui.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
