package frequency

import (
	"regexp"
	"strconv"
	"strings"
)

// UnitKind identifies the unit family a frequency string was parsed as.
type UnitKind string

const (
	UnitHours   UnitKind = "hours"
	UnitMonths  UnitKind = "months"
	UnitDays    UnitKind = "days"
	UnitWeeks   UnitKind = "weeks"
	UnitYears   UnitKind = "years"
	UnitUnknown UnitKind = "unknown"
)

// Category buckets a maintenance interval by how long it is.
type Category string

const (
	CategoryVeryHigh Category = "Very High"
	CategoryHigh     Category = "High"
	CategoryMedium   Category = "Medium"
	CategoryLow      Category = "Low"
	CategoryUnknown  Category = "Unknown"
)

// Conversion ratios between unit families. Approximate by design: a month is
// taken as 30 days and a week as 4.33 per month.
const (
	hoursPerDay   = 24.0
	hoursPerWeek  = 168.0
	hoursPerYear  = 8760.0
	daysPerMonth  = 30.0
	weeksPerMonth = 4.33
	monthsPerYear = 12.0
)

// unitPriority is the single ordered list of unit families consulted when a
// string could match more than one pattern. Both Categorize and the
// major-machinery gate in the analysis package resolve ambiguity through this
// order, so the two never disagree on the same text.
var unitPriority = []UnitKind{UnitHours, UnitMonths, UnitDays, UnitWeeks, UnitYears}

var unitPatterns = map[UnitKind][]*regexp.Regexp{
	UnitHours: {
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hour|hr)s?\b`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:operating|running|service)\s*(?:hour|hr|h)s?\b`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h\b`),
	},
	UnitMonths: {
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:month|mon)s?\b`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:monthly|mo|m)\b`),
	},
	UnitDays: {
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:day|d)s?\b`),
	},
	UnitWeeks: {
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:week|wk|w)s?\b`),
	},
	UnitYears: {
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:year|yr|y)s?\b`),
	},
}

// Thresholds configures the category boundaries used by Parser.Categorize.
type Thresholds struct {
	HoursVeryHigh  float64
	HoursHigh      float64
	HoursMedium    float64
	MonthsVeryHigh float64
	MonthsHigh     float64
	MonthsMedium   float64
}

// DefaultThresholds returns the standard category boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HoursVeryHigh:  8000,
		HoursHigh:      4000,
		HoursMedium:    2000,
		MonthsVeryHigh: 60,
		MonthsHigh:     30,
		MonthsMedium:   12,
	}
}

// Parser converts free-text maintenance interval descriptions such as
// "4000 hours" or "30 months" into comparable numeric values.
//
// ParseHours and ParseMonths are strict same-unit parses: each answers only
// from its own unit family and never converts. NormalizeHours and
// NormalizeMonths are the explicit cross-unit mode that converts any
// recognized family using fixed ratios. The strict mode is authoritative for
// filtering; normalization exists for display and comparison only.
type Parser struct {
	thresholds Thresholds
}

// NewParser creates a parser with the default category thresholds.
func NewParser() *Parser {
	return &Parser{thresholds: DefaultThresholds()}
}

// NewParserWithThresholds creates a parser with custom category thresholds.
func NewParserWithThresholds(t Thresholds) *Parser {
	return &Parser{thresholds: t}
}

// match scans text for the first pattern of a single unit family and returns
// the numeric value. Numbers preceded by a minus sign never parse.
func match(text string, kind UnitKind) (float64, bool) {
	for _, re := range unitPatterns[kind] {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if start := loc[2]; start > 0 && text[start-1] == '-' {
			continue
		}
		v, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ParseHours parses an hour-based frequency string. Text from any other unit
// family, or with no recognizable interval, yields (0, false).
func (p *Parser) ParseHours(text string) (float64, bool) {
	s := normalize(text)
	if s == "" {
		return 0, false
	}
	return match(s, UnitHours)
}

// ParseMonths parses a month-based frequency string. Text from any other unit
// family, or with no recognizable interval, yields (0, false).
func (p *Parser) ParseMonths(text string) (float64, bool) {
	s := normalize(text)
	if s == "" {
		return 0, false
	}
	return match(s, UnitMonths)
}

// Detect returns the unit family and raw value of the first interval found in
// text, walking the unit priority order. Unrecognized text reports
// UnitUnknown.
func (p *Parser) Detect(text string) (UnitKind, float64) {
	s := normalize(text)
	if s == "" {
		return UnitUnknown, 0
	}
	for _, kind := range unitPriority {
		if v, ok := match(s, kind); ok {
			return kind, v
		}
	}
	return UnitUnknown, 0
}

// NormalizeHours converts an interval of any recognized unit family to hours
// using fixed approximate ratios.
func (p *Parser) NormalizeHours(text string) (float64, bool) {
	kind, v := p.Detect(text)
	switch kind {
	case UnitHours:
		return v, true
	case UnitMonths:
		return v * daysPerMonth * hoursPerDay, true
	case UnitDays:
		return v * hoursPerDay, true
	case UnitWeeks:
		return v * hoursPerWeek, true
	case UnitYears:
		return v * hoursPerYear, true
	}
	return 0, false
}

// NormalizeMonths converts an interval of any recognized unit family to
// months using fixed approximate ratios.
func (p *Parser) NormalizeMonths(text string) (float64, bool) {
	kind, v := p.Detect(text)
	switch kind {
	case UnitHours:
		return v / (daysPerMonth * hoursPerDay), true
	case UnitMonths:
		return v, true
	case UnitDays:
		return v / daysPerMonth, true
	case UnitWeeks:
		return v / weeksPerMonth, true
	case UnitYears:
		return v * monthsPerYear, true
	}
	return 0, false
}

// Categorize buckets a frequency string using the parser's thresholds. Only
// hour- and month-based intervals are categorized; everything else is
// Unknown.
func (p *Parser) Categorize(text string) Category {
	if hours, ok := p.ParseHours(text); ok {
		switch {
		case hours >= p.thresholds.HoursVeryHigh:
			return CategoryVeryHigh
		case hours >= p.thresholds.HoursHigh:
			return CategoryHigh
		case hours >= p.thresholds.HoursMedium:
			return CategoryMedium
		default:
			return CategoryLow
		}
	}
	if months, ok := p.ParseMonths(text); ok {
		switch {
		case months >= p.thresholds.MonthsVeryHigh:
			return CategoryVeryHigh
		case months >= p.thresholds.MonthsHigh:
			return CategoryHigh
		case months >= p.thresholds.MonthsMedium:
			return CategoryMedium
		default:
			return CategoryLow
		}
	}
	return CategoryUnknown
}

// IsHourBased reports whether the raw text names an hour unit. The
// major-machinery gate uses the literal token, not a successful parse, to
// decide which threshold applies.
func IsHourBased(text string) bool {
	return strings.Contains(strings.ToLower(text), "hour")
}

// IsMonthBased reports whether the raw text names a month unit.
func IsMonthBased(text string) bool {
	return strings.Contains(strings.ToLower(text), "month")
}
