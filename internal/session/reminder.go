package session

import (
	"io"
	"log/slog"
	"time"
)

// MarkerStore persists the month stamp of the last fired reminder.
type MarkerStore interface {
	LastReminderMonth() string
	SetLastReminderMonth(month string) error
}

// MonthlyReminder fires the backup/export reminder at most once per
// calendar month, across process restarts, keyed by YYYY-MM.
type MonthlyReminder struct {
	store  MarkerStore
	logger *slog.Logger
}

// NewMonthlyReminder creates a reminder gate over the given marker store.
func NewMonthlyReminder(store MarkerStore, logger *slog.Logger) *MonthlyReminder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &MonthlyReminder{store: store, logger: logger}
}

// Fire reports whether the reminder should be shown now. When it
// fires, the current month is marked first; the marker write is best
// effort, and a failed write still shows the reminder so the operator
// is nagged again rather than never.
func (r *MonthlyReminder) Fire(now time.Time) bool {
	key := now.Format("2006-01")
	if r.store.LastReminderMonth() == key {
		return false
	}
	if err := r.store.SetLastReminderMonth(key); err != nil {
		r.logger.Warn("failed to persist reminder marker", "month", key, "error", err)
	}
	return true
}
