// Package schedule holds the pure date rules for the inspection cycle:
// next-due derivation, the calendar-month warning window, and the
// urgency classifier. No I/O, no clock; callers pass "today" in.
package schedule

import "time"

// DateFormat is the wire and storage format for all inspection dates.
const DateFormat = "2006-01-02"

// Status classifies a company's urgency relative to its next due date.
type Status int

const (
	// StatusNoData means the company has no recorded inspection yet.
	StatusNoData Status = iota
	// StatusOk means the due date is more than two calendar months away.
	StatusOk
	// StatusDueSoon means today falls inside the warning window.
	StatusDueSoon
	// StatusExpired means the due date has passed.
	StatusExpired
)

// Label returns the display label used in lists and CSV exports.
func (s Status) Label() string {
	switch s {
	case StatusExpired:
		return "Expired"
	case StatusDueSoon:
		return "Due Soon"
	case StatusOk:
		return "OK"
	default:
		return "No data"
	}
}

// NextDueDate returns the next inspection due date for an inspection
// completed on done: the same calendar day one year later, minus one
// day. A Feb 29 completion in a year whose successor is not a leap
// year is treated as Feb 28 of that successor before subtracting, so
// NextDueDate(2024-02-29) = 2025-02-27.
func NextDueDate(done time.Time) time.Time {
	year, month, day := done.Date()
	if month == time.February && day == 29 && !isLeapYear(year+1) {
		day = 28
	}
	next := time.Date(year+1, month, day, 0, 0, 0, 0, time.UTC)
	return next.AddDate(0, 0, -1)
}

// WarningWindowStart returns the first day of the calendar month two
// months before nextDue's month. The window is month-based, not
// day-count based: a company due March 31 is due soon from January 1.
func WarningWindowStart(nextDue time.Time) time.Time {
	year := nextDue.Year()
	month := int(nextDue.Month()) - 2
	if month <= 0 {
		month += 12
		year--
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// Classify returns the urgency status for today against nextDue.
// hasNextDue is false when the company has no recorded inspection.
func Classify(today, nextDue time.Time, hasNextDue bool) Status {
	if !hasNextDue {
		return StatusNoData
	}
	today = truncate(today)
	nextDue = truncate(nextDue)
	switch {
	case today.After(nextDue):
		return StatusExpired
	case !today.Before(WarningWindowStart(nextDue)):
		return StatusDueSoon
	default:
		return StatusOk
	}
}

// ParseDate parses a YYYY-MM-DD date string into a UTC civil date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, time.UTC)
}

// FormatDate renders a date in the YYYY-MM-DD storage format.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

func truncate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
