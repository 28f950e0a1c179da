package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/kmizuno/tenken/internal/domain/company"
	"github.com/kmizuno/tenken/internal/session"
	"github.com/stretchr/testify/require"
)

func TestNotifierEmitsOncePerRun(t *testing.T) {
	var n session.Notifier

	names, ok := n.MaybeNotify([]string{"Acme Corp", "Beta Industries"})
	require.True(t, ok)
	require.Equal(t, []string{"Acme Corp", "Beta Industries"}, names)

	// Recomputing the view must never re-alert, whatever the input.
	names, ok = n.MaybeNotify([]string{"Acme Corp"})
	require.False(t, ok)
	require.Nil(t, names)

	names, ok = n.MaybeNotify([]string{"Completely Different Co"})
	require.False(t, ok)
	require.Nil(t, names)
}

func TestNotifierIgnoresEmptyUrgentList(t *testing.T) {
	var n session.Notifier

	_, ok := n.MaybeNotify(nil)
	require.False(t, ok)
	_, ok = n.MaybeNotify([]string{})
	require.False(t, ok)

	// An empty round must not consume the one shot.
	names, ok := n.MaybeNotify([]string{"Acme Corp"})
	require.True(t, ok)
	require.Equal(t, []string{"Acme Corp"}, names)
}

func TestToggleSort(t *testing.T) {
	s := session.New()
	require.Equal(t, company.SortByDueDate, s.SortKey)
	require.False(t, s.SortDescending)

	s.ToggleSort(company.SortByDueDate)
	require.True(t, s.SortDescending, "same key flips direction")

	s.ToggleSort(company.SortByName)
	require.Equal(t, company.SortByName, s.SortKey)
	require.False(t, s.SortDescending, "new key resets direction")
}

func TestViewOptions(t *testing.T) {
	s := session.New()
	s.SearchText = "acme"
	s.ToggleSort(company.SortByName)
	s.ToggleSort(company.SortByName)

	today := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	opts := s.ViewOptions(today)
	require.Equal(t, "acme", opts.Search)
	require.Equal(t, company.SortByName, opts.Sort)
	require.True(t, opts.Descending)
	require.Equal(t, today, opts.Today)
}

type fakeMarkerStore struct {
	month  string
	setErr error
	sets   int
}

func (f *fakeMarkerStore) LastReminderMonth() string { return f.month }

func (f *fakeMarkerStore) SetLastReminderMonth(month string) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.month = month
	return nil
}

func TestMonthlyReminderFiresOncePerMonth(t *testing.T) {
	store := &fakeMarkerStore{}
	r := session.NewMonthlyReminder(store, nil)

	march := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	require.True(t, r.Fire(march))
	require.Equal(t, "2025-03", store.month)

	// Same month, later day, fresh process: gate stays closed.
	require.False(t, r.Fire(march.AddDate(0, 0, 20)))
	require.Equal(t, 1, store.sets)

	// Next month reopens it.
	require.True(t, r.Fire(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2025-04", store.month)
}

func TestMonthlyReminderMarkerWriteIsBestEffort(t *testing.T) {
	store := &fakeMarkerStore{setErr: errors.New("disk full")}
	r := session.NewMonthlyReminder(store, nil)

	march := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	require.True(t, r.Fire(march), "failed marker write must not suppress the reminder")

	// Marker never stuck, so the reminder keeps firing.
	require.True(t, r.Fire(march))
}
