// Package lesson implements the session lifecycle: scheduling, the
// start/pause/resume/finish timer and cost computation.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banca-dev/banca/internal/log"
	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/roster"
	"github.com/banca-dev/banca/internal/store"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSessionInProgress = errors.New("another session is in progress")
	ErrUnknownStudent    = errors.New("student not found")
	ErrInvalidDate       = errors.New("invalid date, want YYYY-MM-DD")
)

// NoPreviousNotes is passed to the suggester when the student has no earlier lesson notes.
const NoPreviousNotes = "no previous lesson notes"

// Clock returns the current time.
type Clock func() time.Time

// Suggester produces lesson-plan suggestions.
type Suggester interface {
	LessonSuggestion(ctx context.Context, student model.Student, previousNote string) string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.now = clock }
}

// WithSuggester enables Suggest.
func WithSuggester(s Suggester) Option {
	return func(c *Controller) { c.suggester = s }
}

// Controller orchestrates session state transitions.
type Controller struct {
	sessions  *store.Collection[model.ClassSession]
	students  *roster.Roster
	events    log.Sink
	suggester Suggester
	now       Clock
}

// New returns a Controller over the sessions collection in kv.
// events may be nil.
func New(kv store.KV, students *roster.Roster, events log.Sink, opts ...Option) *Controller {
	c := &Controller{
		sessions: store.NewCollection[model.ClassSession](kv, store.SessionsKey),
		students: students,
		events:   events,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ScheduleInput holds the fields of a new session.
type ScheduleInput struct {
	StudentID string
	Date      string // YYYY-MM-DD, defaults to today
	Notes     string
}

// Schedule creates a SCHEDULED session for an existing student.
func (c *Controller) Schedule(in ScheduleInput) (model.ClassSession, error) {
	if _, ok := c.students.Get(in.StudentID); !ok {
		return model.ClassSession{}, ErrUnknownStudent
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = c.Today()
	}
	if _, err := model.ParseDate(date); err != nil {
		return model.ClassSession{}, fmt.Errorf("%w: %q", ErrInvalidDate, in.Date)
	}

	s := model.ClassSession{
		ID:        uuid.New().String(),
		StudentID: in.StudentID,
		Date:      date,
		Status:    model.StatusScheduled,
		Notes:     in.Notes,
	}
	if err := c.sessions.Upsert(s); err != nil {
		return model.ClassSession{}, fmt.Errorf("schedule session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{Event: log.EventSessionScheduled, SessionID: s.ID, StudentID: s.StudentID, Date: s.Date})
	return s, nil
}

// Get returns the session with the given id.
func (c *Controller) Get(id string) (model.ClassSession, bool) {
	return c.sessions.Get(id)
}

// All returns every session in store order.
func (c *Controller) All() []model.ClassSession {
	return c.sessions.All()
}

// Today returns the controller's current date as YYYY-MM-DD.
func (c *Controller) Today() string {
	return c.now().Format(model.DateLayout)
}

// OnDate returns the sessions dated date, excluding cancelled ones, in store order.
func (c *Controller) OnDate(date string) []model.ClassSession {
	return c.sessions.Find(func(s model.ClassSession) bool {
		return s.Date == date && s.Status != model.StatusCancelled
	})
}

// TodaySessions is OnDate for the current date.
func (c *Controller) TodaySessions() []model.ClassSession {
	return c.OnDate(c.Today())
}

// Active returns the session currently in progress, if any.
func (c *Controller) Active() (model.ClassSession, bool) {
	active := c.sessions.Find(func(s model.ClassSession) bool {
		return s.Status == model.StatusInProgress
	})
	if len(active) == 0 {
		return model.ClassSession{}, false
	}
	return active[0], true
}

// Start moves a SCHEDULED session to IN_PROGRESS and starts its timer.
// Only one session may be in progress at a time.
func (c *Controller) Start(id string) (model.ClassSession, error) {
	s, err := c.load(id)
	if err != nil {
		return s, err
	}
	if s.Status != model.StatusScheduled {
		return s, fmt.Errorf("%w: cannot start a %s session", ErrInvalidTransition, s.Status)
	}
	if active, ok := c.Active(); ok {
		return s, fmt.Errorf("%w: %s", ErrSessionInProgress, active.ID)
	}

	now := c.now()
	s.Status = model.StatusInProgress
	s.StartTime = &now
	s.LastResumeTimestamp = &now
	s.AccumulatedActiveMs = 0
	s.Paused = false

	if err := c.sessions.Upsert(s); err != nil {
		return s, fmt.Errorf("start session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{Event: log.EventSessionStarted, SessionID: s.ID, StudentID: s.StudentID})
	return s, nil
}

// Pause stops elapsed-time accumulation. Status stays IN_PROGRESS.
// Pausing a paused session is a no-op.
func (c *Controller) Pause(id string) (model.ClassSession, error) {
	s, err := c.load(id)
	if err != nil {
		return s, err
	}
	if s.Status != model.StatusInProgress {
		return s, fmt.Errorf("%w: cannot pause a %s session", ErrInvalidTransition, s.Status)
	}
	if s.Paused {
		return s, nil
	}

	s.AccumulatedActiveMs = s.Elapsed(c.now()).Milliseconds()
	s.LastResumeTimestamp = nil
	s.Paused = true

	if err := c.sessions.Upsert(s); err != nil {
		return s, fmt.Errorf("pause session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{Event: log.EventSessionPaused, SessionID: s.ID})
	return s, nil
}

// Resume restarts elapsed-time accumulation of a paused session.
// Resuming a running session is a no-op.
func (c *Controller) Resume(id string) (model.ClassSession, error) {
	s, err := c.load(id)
	if err != nil {
		return s, err
	}
	if s.Status != model.StatusInProgress {
		return s, fmt.Errorf("%w: cannot resume a %s session", ErrInvalidTransition, s.Status)
	}
	if !s.Paused {
		return s, nil
	}

	now := c.now()
	s.LastResumeTimestamp = &now
	s.Paused = false

	if err := c.sessions.Upsert(s); err != nil {
		return s, fmt.Errorf("resume session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{Event: log.EventSessionResumed, SessionID: s.ID})
	return s, nil
}

// Elapsed returns the authoritative active time of a session.
// Completed sessions report their billed duration.
func (c *Controller) Elapsed(id string) (time.Duration, error) {
	s, err := c.load(id)
	if err != nil {
		return 0, err
	}
	switch s.Status {
	case model.StatusInProgress:
		return s.Elapsed(c.now()), nil
	case model.StatusCompleted:
		return time.Duration(s.DurationMinutes) * time.Minute, nil
	default:
		return 0, nil
	}
}

// Finish completes an IN_PROGRESS session. Duration is the active time rounded
// up to whole minutes and cost uses the student's current hourly rate.
// When the student no longer exists nothing is written and ErrUnknownStudent
// is returned.
func (c *Controller) Finish(id, notes string) (model.ClassSession, error) {
	s, err := c.load(id)
	if err != nil {
		return s, err
	}
	if s.Status != model.StatusInProgress {
		return s, fmt.Errorf("%w: cannot finish a %s session", ErrInvalidTransition, s.Status)
	}
	student, ok := c.students.Get(s.StudentID)
	if !ok {
		return s, ErrUnknownStudent
	}

	now := c.now()
	minutes := model.DurationMinutes(s.Elapsed(now))

	s.Status = model.StatusCompleted
	s.EndTime = &now
	s.DurationMinutes = minutes
	s.Cost = model.LessonCost(minutes, student.HourlyRate)
	s.Notes = notes
	s.AccumulatedActiveMs = 0
	s.LastResumeTimestamp = nil
	s.Paused = false

	if err := c.sessions.Upsert(s); err != nil {
		return s, fmt.Errorf("finish session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{
		Event:           log.EventSessionCompleted,
		SessionID:       s.ID,
		StudentID:       s.StudentID,
		DurationMinutes: s.DurationMinutes,
		Amount:          s.Cost.String(),
	})
	return s, nil
}

// Cancel moves a SCHEDULED session to CANCELLED.
func (c *Controller) Cancel(id string) (model.ClassSession, error) {
	s, err := c.load(id)
	if err != nil {
		return s, err
	}
	if s.Status != model.StatusScheduled {
		return s, fmt.Errorf("%w: cannot cancel a %s session", ErrInvalidTransition, s.Status)
	}

	s.Status = model.StatusCancelled
	if err := c.sessions.Upsert(s); err != nil {
		return s, fmt.Errorf("cancel session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{Event: log.EventSessionCancelled, SessionID: s.ID})
	return s, nil
}

// SetNotes replaces the notes of a session in any status.
func (c *Controller) SetNotes(id, notes string) (model.ClassSession, error) {
	s, err := c.load(id)
	if err != nil {
		return s, err
	}
	s.Notes = notes
	if err := c.sessions.Upsert(s); err != nil {
		return s, fmt.Errorf("save notes: %w", err)
	}
	return s, nil
}

// Remove deletes a session.
func (c *Controller) Remove(id string) error {
	if _, err := c.load(id); err != nil {
		return err
	}
	if err := c.sessions.Remove(id); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}

	log.Emit(c.events, log.LogEvent{Event: log.EventSessionRemoved, SessionID: id})
	return nil
}

// PreviousNotes returns the notes of the student's latest completed session
// other than excludeID, or NoPreviousNotes.
func (c *Controller) PreviousNotes(studentID, excludeID string) string {
	var latest *model.ClassSession
	for _, s := range c.sessions.All() {
		if s.StudentID != studentID || s.ID == excludeID || s.Status != model.StatusCompleted {
			continue
		}
		if strings.TrimSpace(s.Notes) == "" {
			continue
		}
		if latest == nil || later(s, *latest) {
			latest = &s
		}
	}
	if latest == nil {
		return NoPreviousNotes
	}
	return latest.Notes
}

// Suggest asks the suggester for a plan for the session's next lesson.
func (c *Controller) Suggest(ctx context.Context, id string) (string, error) {
	if c.suggester == nil {
		return "", errors.New("no suggester configured")
	}
	s, err := c.load(id)
	if err != nil {
		return "", err
	}
	student, ok := c.students.Get(s.StudentID)
	if !ok {
		return "", ErrUnknownStudent
	}
	return c.suggester.LessonSuggestion(ctx, student, c.PreviousNotes(s.StudentID, s.ID)), nil
}

func (c *Controller) load(id string) (model.ClassSession, error) {
	s, ok := c.sessions.Get(id)
	if !ok {
		return model.ClassSession{}, ErrNotFound
	}
	return s, nil
}

// later orders completed sessions by date, then end time.
func later(a, b model.ClassSession) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if a.EndTime != nil && b.EndTime != nil {
		return a.EndTime.After(*b.EndTime)
	}
	return a.EndTime != nil
}
