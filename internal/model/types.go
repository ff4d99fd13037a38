// Package model defines the students and lesson sessions tracked by banca.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a ClassSession.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every Status value.
var Statuses = []Status{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Student is a tutoring client.
type Student struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Subject    string          `json:"subject"`
	HourlyRate decimal.Decimal `json:"hourlyRate"`
	Phone      string          `json:"phone"`
	Notes      string          `json:"notes,omitempty"`
}

// RecordID implements store.Record.
func (s Student) RecordID() string { return s.ID }

// ClassSession is a single scheduled or completed lesson.
type ClassSession struct {
	ID              string          `json:"id"`
	StudentID       string          `json:"studentId"`
	Date            string          `json:"date"` // YYYY-MM-DD
	StartTime       *time.Time      `json:"startTime,omitempty"`
	EndTime         *time.Time      `json:"endTime,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Status          Status          `json:"status"`
	Notes           string          `json:"notes"`
	Cost            decimal.Decimal `json:"cost"`
	Paid            bool            `json:"paid"`

	// Timing of an IN_PROGRESS session. Cleared on completion.
	AccumulatedActiveMs int64      `json:"accumulatedActiveMs,omitempty"`
	LastResumeTimestamp *time.Time `json:"lastResumeTimestamp,omitempty"`
	Paused              bool       `json:"paused,omitempty"`
}

// RecordID implements store.Record.
func (s ClassSession) RecordID() string { return s.ID }

// Unpaid reports whether the session is completed and still owed.
func (s ClassSession) Unpaid() bool {
	return s.Status == StatusCompleted && !s.Paid
}
