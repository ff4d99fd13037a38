// Package roster manages the tutor's students.
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/banca-dev/banca/internal/log"
	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/store"
)

// UnknownStudent is shown in place of a student that no longer exists.
const UnknownStudent = "Unknown Student"

var (
	ErrNotFound    = errors.New("student not found")
	ErrInvalidRate = errors.New("hourly rate must not be negative")
	ErrNameMissing = errors.New("student name is required")
)

// Roster is the student collection plus its rules.
type Roster struct {
	students *store.Collection[model.Student]
	events   log.Sink
}

// New returns a Roster over the students collection in kv.
// events may be nil.
func New(kv store.KV, events log.Sink) *Roster {
	return &Roster{
		students: store.NewCollection[model.Student](kv, store.StudentsKey),
		events:   events,
	}
}

// List returns all students in store order.
func (r *Roster) List() []model.Student {
	return r.students.All()
}

// Get looks up a student by id.
func (r *Roster) Get(id string) (model.Student, bool) {
	return r.students.Get(id)
}

// NameOf returns the student's name, or UnknownStudent for a dangling id.
func (r *Roster) NameOf(id string) string {
	if s, ok := r.students.Get(id); ok {
		return s.Name
	}
	return UnknownStudent
}

// Save creates or updates a student. A new id is assigned when s.ID is empty.
func (r *Roster) Save(s model.Student) (model.Student, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return model.Student{}, ErrNameMissing
	}
	if s.HourlyRate.IsNegative() {
		return model.Student{}, ErrInvalidRate
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	if err := r.students.Upsert(s); err != nil {
		return model.Student{}, fmt.Errorf("save student: %w", err)
	}

	log.Emit(r.events, log.LogEvent{Event: log.EventStudentSaved, StudentID: s.ID})
	return s, nil
}

// Delete removes a student. Sessions referencing it are left in place.
func (r *Roster) Delete(id string) error {
	if _, ok := r.students.Get(id); !ok {
		return ErrNotFound
	}
	if err := r.students.Remove(id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}

	log.Emit(r.events, log.LogEvent{Event: log.EventStudentDeleted, StudentID: id})
	return nil
}
