package dates

import (
	"strings"
	"time"
)

// Maintenance exports come from several planning systems that disagree on
// date formatting. Day-first formats are tried before month-first because the
// source fleets report dates that way.
var layouts = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/06",
	"02-01-06",
	"01/02/2006",
	"01-02-2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

// Parse converts a date string into a time.Time. Unparseable or empty input
// returns (zero, false); callers treat that as an absent date, never an
// error.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Quarter returns the calendar quarter (1-4) of t.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// Year returns the calendar year of t.
func Year(t time.Time) int {
	return t.Year()
}

// MonthName returns the English month name of t.
func MonthName(t time.Time) string {
	return t.Month().String()
}

// IsOverdue reports whether due falls strictly before the reference time.
func IsOverdue(due, reference time.Time) bool {
	if due.IsZero() {
		return false
	}
	return due.Before(reference)
}

// DaysUntilDue returns the whole days between reference and due. Negative
// when the date has passed.
func DaysUntilDue(due, reference time.Time) (int, bool) {
	if due.IsZero() {
		return 0, false
	}
	return int(due.Sub(reference).Hours() / 24), true
}
