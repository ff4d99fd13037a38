// Package testutil provides test helper utilities for banca tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banca-dev/banca/internal/model"
)

// TempDataDir creates a temporary data directory with the given files and returns its path.
// Files is a map of relative path -> content. Directories are created as needed.
// The directory is automatically cleaned up when the test finishes.
func TempDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock set to start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// LessonDay is 2024-06-01 14:00 UTC, the default test clock start.
func LessonDay() time.Time {
	return time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
}

// Student returns a student with the given name and hourly rate.
func Student(name string, rate int64) model.Student {
	return model.Student{
		Name:       name,
		Subject:    "Math",
		Phone:      "+55 11 99999-0000",
		HourlyRate: decimal.NewFromInt(rate),
	}
}

// Generator is a scripted text generator. It records every prompt it receives.
type Generator struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
}

// Generate returns Reply or Err.
func (g *Generator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

// Calls returns how many prompts were sent.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Prompts)
}
