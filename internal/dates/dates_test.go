package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"day first slashes", "14/02/2025", "2025-02-14", true},
		{"day first dashes", "14-02-2025", "2025-02-14", true},
		{"iso format", "2025-02-14", "2025-02-14", true},
		{"two digit year", "14/02/25", "2025-02-14", true},
		{"day month name", "14 Feb 2025", "2025-02-14", true},
		{"surrounding whitespace", "  14/02/2025  ", "2025-02-14", true},
		{"empty", "", "", false},
		{"garbage", "not a date", "", false},
		{"partial date", "14/02", "", false},
		{"impossible day", "32/01/2025", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if ok != tt.ok {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got.Format("2006-01-02") != tt.expected {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got.Format("2006-01-02"), tt.expected)
			}
		})
	}
}

func TestParsePrefersDayFirst(t *testing.T) {
	// 03/04/2025 is ambiguous; the day-first convention wins.
	got, ok := Parse("03/04/2025")
	assert.True(t, ok)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestQuarter(t *testing.T) {
	tests := []struct {
		date    string
		quarter int
	}{
		{"2025-01-01", 1},
		{"2025-02-14", 1},
		{"2025-03-31", 1},
		{"2025-04-01", 2},
		{"2025-06-30", 2},
		{"2025-07-01", 3},
		{"2025-09-15", 3},
		{"2025-10-01", 4},
		{"2025-12-31", 4},
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		assert.NoError(t, err)
		assert.Equal(t, tt.quarter, Quarter(d), "Quarter(%s)", tt.date)
	}
}

func TestIsOverdue(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsOverdue(ref.AddDate(0, 0, -1), ref))
	assert.False(t, IsOverdue(ref.AddDate(0, 0, 1), ref))
	assert.False(t, IsOverdue(time.Time{}, ref))
}

func TestDaysUntilDue(t *testing.T) {
	ref := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	days, ok := DaysUntilDue(ref.AddDate(0, 0, 10), ref)
	assert.True(t, ok)
	assert.Equal(t, 10, days)

	days, ok = DaysUntilDue(ref.AddDate(0, 0, -5), ref)
	assert.True(t, ok)
	assert.Equal(t, -5, days)

	_, ok = DaysUntilDue(time.Time{}, ref)
	assert.False(t, ok)
}

func TestMonthName(t *testing.T) {
	d := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "February", MonthName(d))
}
