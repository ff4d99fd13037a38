package lesson

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/roster"
	"github.com/banca-dev/banca/internal/store"
	"github.com/banca-dev/banca/internal/testutil"
)

type fixture struct {
	kv     *store.MemoryKV
	clock  *testutil.Clock
	roster *roster.Roster
	ctl    *Controller
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	kv := store.NewMemoryKV()
	clock := testutil.NewClock(testutil.LessonDay())
	r := roster.New(kv, nil)
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return &fixture{
		kv:     kv,
		clock:  clock,
		roster: r,
		ctl:    New(kv, r, nil, opts...),
	}
}

func (f *fixture) student(t *testing.T, name string, rate int64) model.Student {
	t.Helper()
	s, err := f.roster.Save(testutil.Student(name, rate))
	if err != nil {
		t.Fatalf("Save student: %v", err)
	}
	return s
}

func (f *fixture) schedule(t *testing.T, studentID, date string) model.ClassSession {
	t.Helper()
	s, err := f.ctl.Schedule(ScheduleInput{StudentID: studentID, Date: date})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	return s
}

func TestScheduleCreatesZeroedSession(t *testing.T) {
	f := newFixture(t)
	ana := f.student(t, "Ana", 50)

	s, err := f.ctl.Schedule(ScheduleInput{StudentID: ana.ID, Notes: "bring the workbook"})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if s.ID == "" {
		t.Error("Schedule should assign an id")
	}
	if s.Date != "2024-06-01" {
		t.Errorf("Date = %q, want today", s.Date)
	}
	if s.Status != model.StatusScheduled || s.DurationMinutes != 0 || !s.Cost.IsZero() || s.Paid {
		t.Errorf("unexpected new session: %+v", s)
	}
	if s.StartTime != nil || s.EndTime != nil {
		t.Error("new session should have no start or end time")
	}
	if got, ok := f.ctl.Get(s.ID); !ok || got.Notes != "bring the workbook" {
		t.Errorf("stored session = %+v", got)
	}
}

func TestScheduleRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ana := f.student(t, "Ana", 50)

	if _, err := f.ctl.Schedule(ScheduleInput{StudentID: "nobody"}); !errors.Is(err, ErrUnknownStudent) {
		t.Errorf("unknown student: got %v", err)
	}
	if _, err := f.ctl.Schedule(ScheduleInput{StudentID: ana.ID, Date: "01/06/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date: got %v", err)
	}
	if n := len(f.ctl.All()); n != 0 {
		t.Errorf("rejected schedules wrote %d sessions", n)
	}
}

func TestCompleteScenarioAna(t *testing.T) {
	f := newFixture(t)
	ana := f.student(t, "Ana", 50)
	s := f.schedule(t, ana.ID, "2024-06-01")

	started, err := f.ctl.Start(s.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.Status != model.StatusInProgress || started.StartTime == nil {
		t.Fatalf("started session = %+v", started)
	}

	f.clock.Advance(3600 * time.Second)

	done, err := f.ctl.Finish(s.ID, "long division")
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if done.Status != model.StatusCompleted {
		t.Errorf("Status = %s, want COMPLETED", done.Status)
	}
	if done.DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %d, want 60", done.DurationMinutes)
	}
	if !done.Cost.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Cost = %s, want 50.00", done.Cost.StringFixed(2))
	}
	if done.Paid {
		t.Error("completed session should be unpaid")
	}
	if done.EndTime == nil || !done.EndTime.Equal(testutil.LessonDay().Add(time.Hour)) {
		t.Errorf("EndTime = %v", done.EndTime)
	}
	if done.Notes != "long division" {
		t.Errorf("Notes = %q", done.Notes)
	}
	if done.AccumulatedActiveMs != 0 || done.LastResumeTimestamp != nil || done.Paused {
		t.Error("timing fields should be cleared on completion")
	}
}

func TestFinishNinetyMinutesAtSixty(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Caio", 60)
	s := f.schedule(t, st.ID, "")
	if _, err := f.ctl.Start(s.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.clock.Advance(5400 * time.Second)

	done, err := f.ctl.Finish(s.ID, "")
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if done.DurationMinutes != 90 || done.Cost.StringFixed(2) != "90.00" {
		t.Errorf("got %d min / %s, want 90 min / 90.00", done.DurationMinutes, done.Cost.StringFixed(2))
	}
}

func TestFinishRoundsPartialMinuteUp(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Duda", 60)
	s := f.schedule(t, st.ID, "")
	_, _ = f.ctl.Start(s.ID)
	f.clock.Advance(30*time.Minute + time.Second)

	done, err := f.ctl.Finish(s.ID, "")
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if done.DurationMinutes != 31 || !done.Cost.Equal(decimal.NewFromInt(31)) {
		t.Errorf("got %d min / %s, want 31 / 31", done.DurationMinutes, done.Cost)
	}
}

func TestFinishUsesRateAtCompletion(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Eva", 40)
	s := f.schedule(t, st.ID, "")
	_, _ = f.ctl.Start(s.ID)

	st.HourlyRate = decimal.NewFromInt(80)
	if _, err := f.roster.Save(st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.clock.Advance(30 * time.Minute)

	done, err := f.ctl.Finish(s.ID, "")
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !done.Cost.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Cost = %s, want 40 (30 min at the new rate of 80)", done.Cost)
	}
}

func TestPauseResumeExcludesPausedInterval(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")
	_, _ = f.ctl.Start(s.ID)

	f.clock.Advance(20 * time.Minute)
	paused, err := f.ctl.Pause(s.ID)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if paused.Status != model.StatusInProgress || !paused.Paused {
		t.Errorf("paused session = %+v, status must stay IN_PROGRESS", paused)
	}

	f.clock.Advance(15 * time.Minute)
	if got, _ := f.ctl.Elapsed(s.ID); got != 20*time.Minute {
		t.Errorf("Elapsed while paused = %s, want 20m", got)
	}

	if _, err := f.ctl.Resume(s.ID); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	f.clock.Advance(10 * time.Minute)
	_, _ = f.ctl.Pause(s.ID)
	f.clock.Advance(5 * time.Minute)
	_, _ = f.ctl.Resume(s.ID)
	f.clock.Advance(10 * time.Minute)

	done, err := f.ctl.Finish(s.ID, "")
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if done.DurationMinutes != 40 {
		t.Errorf("DurationMinutes = %d, want 40 active minutes", done.DurationMinutes)
	}
}

func TestPauseAndResumeAreIdempotent(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")

	if _, err := f.ctl.Pause(s.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("pause scheduled: got %v", err)
	}

	_, _ = f.ctl.Start(s.ID)
	f.clock.Advance(time.Minute)
	if _, err := f.ctl.Resume(s.ID); err != nil {
		t.Errorf("resume running: %v", err)
	}
	first, _ := f.ctl.Pause(s.ID)
	f.clock.Advance(time.Minute)
	second, err := f.ctl.Pause(s.ID)
	if err != nil {
		t.Fatalf("second Pause: %v", err)
	}
	if first.AccumulatedActiveMs != second.AccumulatedActiveMs {
		t.Errorf("second pause changed accumulated time: %d -> %d", first.AccumulatedActiveMs, second.AccumulatedActiveMs)
	}
}

func TestPausedStateSurvivesReload(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")
	_, _ = f.ctl.Start(s.ID)
	f.clock.Advance(25 * time.Minute)
	_, _ = f.ctl.Pause(s.ID)
	f.clock.Advance(2 * time.Hour)

	// A new controller over the same store stands in for a restart.
	reloaded := New(f.kv, f.roster, nil, WithClock(f.clock.Now))
	if got, _ := reloaded.Elapsed(s.ID); got != 25*time.Minute {
		t.Errorf("Elapsed after reload = %s, want 25m", got)
	}
}

func TestStartRejectsSecondActiveSession(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	first := f.schedule(t, st.ID, "")
	second := f.schedule(t, st.ID, "")

	if _, err := f.ctl.Start(first.ID); err != nil {
		t.Fatalf("Start first: %v", err)
	}
	if _, err := f.ctl.Start(second.ID); !errors.Is(err, ErrSessionInProgress) {
		t.Fatalf("Start second: got %v, want ErrSessionInProgress", err)
	}
	if got, _ := f.ctl.Get(second.ID); got.Status != model.StatusScheduled {
		t.Errorf("rejected session status = %s", got.Status)
	}

	active, ok := f.ctl.Active()
	if !ok || active.ID != first.ID {
		t.Errorf("Active = %+v, want first session", active)
	}

	_, _ = f.ctl.Finish(first.ID, "")
	if _, err := f.ctl.Start(second.ID); err != nil {
		t.Errorf("Start after finishing first: %v", err)
	}
}

func TestInvalidTransitions(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")

	if _, err := f.ctl.Finish(s.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("finish scheduled: got %v", err)
	}
	_, _ = f.ctl.Start(s.ID)
	if _, err := f.ctl.Start(s.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("start in progress: got %v", err)
	}
	if _, err := f.ctl.Cancel(s.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("cancel in progress: got %v", err)
	}
	if _, err := f.ctl.Start("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("start missing: got %v", err)
	}
}

func TestFinishWithDeletedStudentWritesNothing(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")
	_, _ = f.ctl.Start(s.ID)
	before, _ := f.ctl.Get(s.ID)

	if err := f.roster.Delete(st.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	f.clock.Advance(time.Hour)

	if _, err := f.ctl.Finish(s.ID, "lost notes"); !errors.Is(err, ErrUnknownStudent) {
		t.Fatalf("Finish: got %v, want ErrUnknownStudent", err)
	}
	after, _ := f.ctl.Get(s.ID)
	if after.Status != model.StatusInProgress || after.Notes != before.Notes || after.DurationMinutes != 0 {
		t.Errorf("session changed after failed finish: %+v", after)
	}
}

func TestNonCompletedSessionsHaveNoDurationOrCost(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	scheduled := f.schedule(t, st.ID, "")
	running := f.schedule(t, st.ID, "")
	cancelled := f.schedule(t, st.ID, "")
	_, _ = f.ctl.Start(running.ID)
	_, _ = f.ctl.Cancel(cancelled.ID)
	f.clock.Advance(time.Hour)
	_, _ = f.ctl.Pause(running.ID)
	_ = scheduled

	for _, s := range f.ctl.All() {
		if s.Status == model.StatusCompleted {
			continue
		}
		if s.DurationMinutes != 0 || !s.Cost.IsZero() {
			t.Errorf("%s session %s has duration %d cost %s", s.Status, s.ID, s.DurationMinutes, s.Cost)
		}
	}
}

func TestOnDateExcludesCancelled(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	keep := f.schedule(t, st.ID, "2024-06-01")
	drop := f.schedule(t, st.ID, "2024-06-01")
	other := f.schedule(t, st.ID, "2024-06-02")
	if _, err := f.ctl.Cancel(drop.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	got := f.ctl.OnDate("2024-06-01")
	if len(got) != 1 || got[0].ID != keep.ID {
		t.Errorf("OnDate = %+v, want only %s", got, keep.ID)
	}
	if today := f.ctl.TodaySessions(); len(today) != 1 {
		t.Errorf("TodaySessions returned %d sessions, want 1", len(today))
	}
	if next := f.ctl.OnDate("2024-06-02"); len(next) != 1 || next[0].ID != other.ID {
		t.Errorf("OnDate next day = %+v", next)
	}
}

func TestOnDateExcludesLegacyCancelledRecords(t *testing.T) {
	f := newFixture(t)
	raw := `[{"id":"a","studentId":"x","date":"2024-06-01","durationMinutes":0,"status":"CANCELLED","notes":"","cost":0,"paid":false},
	         {"id":"b","studentId":"x","date":"2024-06-01","durationMinutes":0,"status":"SCHEDULED","notes":"","cost":0,"paid":false}]`
	if err := f.kv.Put(store.SessionsKey, []byte(raw)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got := f.ctl.OnDate("2024-06-01")
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("OnDate = %+v", got)
	}
}

func TestNotesAndRemove(t *testing.T) {
	f := newFixture(t)
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")

	if _, err := f.ctl.SetNotes(s.ID, "verbs"); err != nil {
		t.Fatalf("SetNotes: %v", err)
	}
	if got, _ := f.ctl.Get(s.ID); got.Notes != "verbs" {
		t.Errorf("Notes = %q", got.Notes)
	}
	if err := f.ctl.Remove(s.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := f.ctl.Remove(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove: got %v", err)
	}
}

type stubSuggester struct {
	student      model.Student
	previousNote string
}

func (s *stubSuggester) LessonSuggestion(_ context.Context, st model.Student, note string) string {
	s.student = st
	s.previousNote = note
	return "1. review"
}

func TestSuggestUsesLatestCompletedNotes(t *testing.T) {
	sg := &stubSuggester{}
	f := newFixture(t, WithSuggester(sg))
	st := f.student(t, "Ana", 60)

	for _, note := range []string{"fractions", "decimals"} {
		s := f.schedule(t, st.ID, "")
		_, _ = f.ctl.Start(s.ID)
		f.clock.Advance(time.Hour)
		if _, err := f.ctl.Finish(s.ID, note); err != nil {
			t.Fatalf("Finish: %v", err)
		}
	}
	next := f.schedule(t, st.ID, "")

	got, err := f.ctl.Suggest(context.Background(), next.ID)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got != "1. review" {
		t.Errorf("Suggest = %q", got)
	}
	if sg.previousNote != "decimals" {
		t.Errorf("previous note = %q, want decimals", sg.previousNote)
	}
	if sg.student.ID != st.ID {
		t.Errorf("student = %+v", sg.student)
	}
}

func TestSuggestWithoutHistory(t *testing.T) {
	sg := &stubSuggester{}
	f := newFixture(t, WithSuggester(sg))
	st := f.student(t, "Ana", 60)
	s := f.schedule(t, st.ID, "")

	if _, err := f.ctl.Suggest(context.Background(), s.ID); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if sg.previousNote != NoPreviousNotes {
		t.Errorf("previous note = %q, want %q", sg.previousNote, NoPreviousNotes)
	}
}
