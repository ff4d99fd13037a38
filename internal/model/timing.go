package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of ClassSession.Date.
const DateLayout = time.DateOnly

var sixty = decimal.NewFromInt(60)

// Elapsed returns the active time of the session at now.
// Paused intervals are excluded. Records written before pause tracking
// existed carry only a start time and fall back to now - StartTime.
func (s ClassSession) Elapsed(now time.Time) time.Duration {
	active := time.Duration(s.AccumulatedActiveMs) * time.Millisecond
	switch {
	case s.Paused:
		return active
	case s.LastResumeTimestamp != nil:
		if run := now.Sub(*s.LastResumeTimestamp); run > 0 {
			active += run
		}
		return active
	case s.StartTime != nil && s.AccumulatedActiveMs == 0:
		if run := now.Sub(*s.StartTime); run > 0 {
			return run
		}
		return 0
	default:
		return active
	}
}

// Running reports whether the session is in progress and not paused.
func (s ClassSession) Running() bool {
	return s.Status == StatusInProgress && !s.Paused
}

// DurationMinutes rounds elapsed up to whole minutes.
func DurationMinutes(elapsed time.Duration) int {
	secs := int64(elapsed / time.Second)
	if secs <= 0 {
		return 0
	}
	return int((secs + 59) / 60)
}

// LessonCost is (minutes / 60) * hourlyRate.
func LessonCost(minutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty)
}

// ParseDate validates a YYYY-MM-DD lesson date.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// SortByDate orders sessions by date, then id, in place.
func SortByDate(sessions []ClassSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].ID < sessions[j].ID
	})
}
