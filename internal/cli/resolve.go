package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banca-dev/banca/internal/model"
	"github.com/banca-dev/banca/internal/ui"
)

var (
	errNoMatch   = errors.New("no match")
	errAmbiguous = errors.New("ambiguous id")
)

// resolveID expands prefix to the single id in ids that it identifies.
// An exact match always wins.
func resolveID(ids []string, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errNoMatch
	}
	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", errNoMatch
	case 1:
		return matches[0], nil
	default:
		short := make([]string, len(matches))
		for i, m := range matches {
			short[i] = ui.ShortID(m)
		}
		return "", fmt.Errorf("%w %q matches %s", errAmbiguous, prefix, strings.Join(short, ", "))
	}
}

func (w *workspace) resolveStudent(prefix string) (model.Student, error) {
	students := w.students.List()
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	id, err := resolveID(ids, prefix)
	if errors.Is(err, errNoMatch) {
		return model.Student{}, fmt.Errorf("student %q not found", prefix)
	}
	if err != nil {
		return model.Student{}, err
	}
	s, _ := w.students.Get(id)
	return s, nil
}

// resolveStudentID resolves prefix against the roster, and falls back to the
// student ids referenced by sessions so balances of deleted students stay reachable.
func (w *workspace) resolveStudentID(prefix string) (string, error) {
	s, err := w.resolveStudent(prefix)
	if err == nil {
		return s.ID, nil
	}
	if errors.Is(err, errAmbiguous) {
		return "", err
	}
	seen := map[string]bool{}
	var ids []string
	for _, sess := range w.lessons.All() {
		if !seen[sess.StudentID] {
			seen[sess.StudentID] = true
			ids = append(ids, sess.StudentID)
		}
	}
	id, refErr := resolveID(ids, prefix)
	if refErr != nil {
		return "", err
	}
	return id, nil
}

func (w *workspace) resolveSession(prefix string) (model.ClassSession, error) {
	sessions := w.lessons.All()
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	id, err := resolveID(ids, prefix)
	if errors.Is(err, errNoMatch) {
		return model.ClassSession{}, fmt.Errorf("session %q not found", prefix)
	}
	if err != nil {
		return model.ClassSession{}, err
	}
	s, _ := w.lessons.Get(id)
	return s, nil
}
