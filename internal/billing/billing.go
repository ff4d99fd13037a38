// Package billing aggregates completed, unpaid lessons into balances and
// marks them paid.
package billing

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/banca-dev/banca/internal/log"
	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/roster"
	"github.com/banca-dev/banca/internal/store"
)

// Messenger writes billing messages.
type Messenger interface {
	BillingMessage(ctx context.Context, student model.Student, sessions []model.ClassSession, total decimal.Decimal) string
}

// Aggregator computes balances over the sessions collection.
type Aggregator struct {
	sessions  *store.Collection[model.ClassSession]
	students  *roster.Roster
	messenger Messenger
	events    log.Sink
}

// New returns an Aggregator. messenger and events may be nil.
func New(kv store.KV, students *roster.Roster, messenger Messenger, events log.Sink) *Aggregator {
	return &Aggregator{
		sessions:  store.NewCollection[model.ClassSession](kv, store.SessionsKey),
		students:  students,
		messenger: messenger,
		events:    events,
	}
}

// UnpaidSessionsFor returns the student's completed, unpaid sessions in store order.
func (a *Aggregator) UnpaidSessionsFor(studentID string) []model.ClassSession {
	return a.sessions.Find(func(s model.ClassSession) bool {
		return s.StudentID == studentID && s.Unpaid()
	})
}

// TotalOwed sums the cost of sessions without rounding.
func TotalOwed(sessions []model.ClassSession) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sessions {
		total = total.Add(s.Cost)
	}
	return total
}

// MarkPaid upserts each completed session with paid set, in order.
// It stops at the first write error; sessions already written stay paid.
// Sessions that are not completed are skipped. Returns how many were marked.
func (a *Aggregator) MarkPaid(sessions []model.ClassSession) (int, error) {
	marked := 0
	total := decimal.Zero
	for _, s := range sessions {
		if s.Status != model.StatusCompleted {
			continue
		}
		s.Paid = true
		if err := a.sessions.Upsert(s); err != nil {
			a.logPaid(marked, total)
			return marked, fmt.Errorf("mark session %s paid: %w", s.ID, err)
		}
		marked++
		total = total.Add(s.Cost)
	}
	a.logPaid(marked, total)
	return marked, nil
}

func (a *Aggregator) logPaid(marked int, total decimal.Decimal) {
	if marked == 0 {
		return
	}
	log.Emit(a.events, log.LogEvent{Event: log.EventSessionsPaid, Sessions: marked, Amount: total.String()})
}

// Statement is a student's open balance.
type Statement struct {
	Student  model.Student
	Known    bool // false when the student record no longer exists
	Sessions []model.ClassSession
	Total    decimal.Decimal
}

// StatementFor builds the open balance of a student, sessions sorted by date.
func (a *Aggregator) StatementFor(studentID string) Statement {
	student, ok := a.students.Get(studentID)
	if !ok {
		student = model.Student{ID: studentID, Name: roster.UnknownStudent}
	}
	sessions := a.UnpaidSessionsFor(studentID)
	model.SortByDate(sessions)
	return Statement{
		Student:  student,
		Known:    ok,
		Sessions: sessions,
		Total:    TotalOwed(sessions),
	}
}

// Outstanding returns the statements of every student with an open balance, in roster order.
func (a *Aggregator) Outstanding() []Statement {
	var out []Statement
	for _, s := range a.students.List() {
		st := a.StatementFor(s.ID)
		if len(st.Sessions) > 0 {
			out = append(out, st)
		}
	}
	return out
}

// Message asks the messenger for a billing message for st.
// It returns "" when there is nothing to bill or no messenger is configured.
func (a *Aggregator) Message(ctx context.Context, st Statement) string {
	if a.messenger == nil || len(st.Sessions) == 0 {
		return ""
	}
	return a.messenger.BillingMessage(ctx, st.Student, st.Sessions, st.Total)
}

// WhatsAppLink returns a wa.me share link that pre-fills message.
func WhatsAppLink(message string) string {
	return "https://wa.me/?text=" + url.QueryEscape(message)
}
