package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHours(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"plain hours", "4000 hours", 4000, true},
		{"singular hour", "1 hour", 1, true},
		{"hr abbreviation", "2500 hrs", 2500, true},
		{"h abbreviation", "6000 h", 6000, true},
		{"no space", "4000hours", 4000, true},
		{"decimal value", "4000.5 hours", 4000.5, true},
		{"running hours prefix", "8000 running hours", 8000, true},
		{"mixed case", "4000 HOURS", 4000, true},
		{"embedded in text", "every 4000 hours or as required", 4000, true},
		{"multiple intervals takes first", "4000 hours / 24 months", 4000, true},
		{"months string", "30 months", 0, false},
		{"years string", "2 years", 0, false},
		{"weeks string", "2 weeks", 0, false},
		{"empty string", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"garbage", "as required", 0, false},
		{"negative value", "-4000 hours", 0, false},
		{"number without unit", "4000", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ParseHours(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseHours(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseHours(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseMonths(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"plain months", "30 months", 30, true},
		{"singular month", "1 month", 1, true},
		{"mon abbreviation", "6 mons", 6, true},
		{"m abbreviation", "12 m", 12, true},
		{"mo abbreviation", "3 mo", 3, true},
		{"decimal value", "1.5 months", 1.5, true},
		{"mixed case", "30 Months", 30, true},
		{"hours string", "4000 hours", 0, false},
		{"years string", "5 years", 0, false},
		{"empty string", "", 0, false},
		{"garbage", "continuous", 0, false},
		{"negative value", "-30 months", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.ParseMonths(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseMonths(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseMonths(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		input string
		kind  UnitKind
		value float64
	}{
		{"4000 hours", UnitHours, 4000},
		{"30 months", UnitMonths, 30},
		{"14 days", UnitDays, 14},
		{"2 weeks", UnitWeeks, 2},
		{"5 years", UnitYears, 5},
		{"4000 hours / 24 months", UnitHours, 4000},
		{"unscheduled", UnitUnknown, 0},
		{"", UnitUnknown, 0},
	}

	for _, tt := range tests {
		kind, v := parser.Detect(tt.input)
		assert.Equal(t, tt.kind, kind, "Detect(%q) kind", tt.input)
		assert.Equal(t, tt.value, v, "Detect(%q) value", tt.input)
	}
}

func TestNormalizeHours(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"4000 hours", 4000, true},
		{"2 days", 48, true},
		{"1 week", 168, true},
		{"1 year", 8760, true},
		{"1 month", 720, true},
		{"garbage", 0, false},
	}

	for _, tt := range tests {
		got, ok := parser.NormalizeHours(tt.input)
		assert.Equal(t, tt.ok, ok, "NormalizeHours(%q) ok", tt.input)
		if ok {
			assert.InDelta(t, tt.expected, got, 0.01, "NormalizeHours(%q)", tt.input)
		}
	}
}

func TestNormalizeMonths(t *testing.T) {
	parser := NewParser()

	got, ok := parser.NormalizeMonths("2 years")
	assert.True(t, ok)
	assert.Equal(t, 24.0, got)

	got, ok = parser.NormalizeMonths("60 days")
	assert.True(t, ok)
	assert.InDelta(t, 2.0, got, 0.01)

	got, ok = parser.NormalizeMonths("720 hours")
	assert.True(t, ok)
	assert.InDelta(t, 1.0, got, 0.01)

	_, ok = parser.NormalizeMonths("")
	assert.False(t, ok)
}

func TestCategorize(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		input    string
		expected Category
	}{
		{"8000 hours", CategoryVeryHigh},
		{"12000 hours", CategoryVeryHigh},
		{"4000 hours", CategoryHigh},
		{"7999 hours", CategoryHigh},
		{"2000 hours", CategoryMedium},
		{"500 hours", CategoryLow},
		{"60 months", CategoryVeryHigh},
		{"30 months", CategoryHigh},
		{"12 months", CategoryMedium},
		{"6 months", CategoryLow},
		{"2 years", CategoryUnknown},
		{"", CategoryUnknown},
		{"as required", CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parser.Categorize(tt.input); got != tt.expected {
				t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCategorizeCustomThresholds(t *testing.T) {
	parser := NewParserWithThresholds(Thresholds{
		HoursVeryHigh: 100, HoursHigh: 50, HoursMedium: 25,
		MonthsVeryHigh: 10, MonthsHigh: 5, MonthsMedium: 2,
	})

	assert.Equal(t, CategoryVeryHigh, parser.Categorize("100 hours"))
	assert.Equal(t, CategoryHigh, parser.Categorize("50 hours"))
	assert.Equal(t, CategoryMedium, parser.Categorize("3 months"))
	assert.Equal(t, CategoryLow, parser.Categorize("1 month"))
}

func TestUnitTokenChecks(t *testing.T) {
	assert.True(t, IsHourBased("4000 Hours"))
	assert.False(t, IsHourBased("30 months"))
	assert.True(t, IsMonthBased("30 MONTHS"))
	assert.False(t, IsMonthBased("4000 hours"))
}
