// Package log provides structured event logging.
// This file appends JSON events to log.jsonl.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event type constants.
const (
	EventStudentSaved     = "student_saved"
	EventStudentDeleted   = "student_deleted"
	EventSessionScheduled = "session_scheduled"
	EventSessionStarted   = "session_started"
	EventSessionPaused    = "session_paused"
	EventSessionResumed   = "session_resumed"
	EventSessionCompleted = "session_completed"
	EventSessionCancelled = "session_cancelled"
	EventSessionRemoved   = "session_removed"
	EventSessionsPaid     = "sessions_paid"
	EventAssistantFailed  = "assistant_failed"
)

// LogEvent represents a single structured event written to the log.
type LogEvent struct {
	Time            time.Time              `json:"time"`
	Event           string                 `json:"event"`
	StudentID       string                 `json:"student,omitempty"`
	SessionID       string                 `json:"session,omitempty"`
	Date            string                 `json:"date,omitempty"`
	DurationMinutes int                    `json:"duration_minutes,omitempty"`
	Amount          string                 `json:"amount,omitempty"`
	Sessions        int                    `json:"sessions,omitempty"`
	Provider        string                 `json:"provider,omitempty"`
	Error           string                 `json:"error,omitempty"`
	Data            map[string]interface{} `json:"data,omitempty"`
}

// Sink receives events. *Logger implements it.
type Sink interface {
	Append(event LogEvent) error
}

// Emit appends event to sink, ignoring a nil sink and write failures.
// Logging never fails the operation being logged.
func Emit(sink Sink, event LogEvent) {
	if sink == nil {
		return
	}
	_ = sink.Append(event)
}

// Logger writes append-only JSONL events to a log file.
type Logger struct {
	path string
	mu   sync.Mutex
}

// NewLogger creates a Logger that writes to .banca/log.jsonl inside dir.
// Creates the .banca/ directory if it does not already exist.
// Does not truncate an existing log file.
func NewLogger(dir string) (*Logger, error) {
	bancaDir := filepath.Join(dir, ".banca")
	if err := os.MkdirAll(bancaDir, 0755); err != nil {
		return nil, fmt.Errorf("create .banca directory: %w", err)
	}

	return &Logger{
		path: filepath.Join(bancaDir, "log.jsonl"),
	}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Append writes a single LogEvent as one JSON line to the log file.
// If event.Time is the zero value, it is automatically set to time.Now().UTC().
// Thread-safe via mutex.
func (l *Logger) Append(event LogEvent) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal log event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write log event: %w", err)
	}

	return nil
}

// ReadAll reads and parses all events from the log file.
// Returns an empty slice (not an error) if the file does not exist.
func (l *Logger) ReadAll() ([]LogEvent, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []LogEvent{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var events []LogEvent
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event LogEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("parse log line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	return events, nil
}
