// Package session holds the per-run state of one application run:
// the current search/sort settings, the edit target, and the one-shot
// urgent-items notifier. A Session is created at startup and
// discarded at shutdown; nothing in it persists.
package session

import (
	"time"

	"github.com/kmizuno/tenken/internal/domain/company"
)

// Session is the mutable state of one run.
type Session struct {
	SearchText     string
	SortKey        company.SortKey
	SortDescending bool
	// EditTarget is the ID of the company currently being edited,
	// or empty when no edit is in progress.
	EditTarget string

	Notifier Notifier
}

// New returns a session with the default sort (due date ascending).
func New() *Session {
	return &Session{SortKey: company.SortByDueDate}
}

// ViewOptions translates the session state into a directory view request.
func (s *Session) ViewOptions(today time.Time) company.ViewOptions {
	return company.ViewOptions{
		Search:     s.SearchText,
		Sort:       s.SortKey,
		Descending: s.SortDescending,
		Today:      today,
	}
}

// ToggleSort switches to the given sort key, or flips the direction
// when the key is already active.
func (s *Session) ToggleSort(key company.SortKey) {
	if s.SortKey == key {
		s.SortDescending = !s.SortDescending
		return
	}
	s.SortKey = key
	s.SortDescending = false
}

// Notifier gates the urgent-items alert to at most one emission per
// run, no matter how often the view is recomputed.
type Notifier struct {
	notified bool
}

// MaybeNotify returns the urgent names to present and true exactly
// once: on the first call with a non-empty list. Every later call
// emits nothing.
func (n *Notifier) MaybeNotify(urgentNames []string) ([]string, bool) {
	if n.notified || len(urgentNames) == 0 {
		return nil, false
	}
	n.notified = true
	return urgentNames, true
}
