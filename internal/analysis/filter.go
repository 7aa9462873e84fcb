package analysis

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/machinery-maintenance/internal/frequency"
	"github.com/ukydev/machinery-maintenance/internal/models"
	"github.com/ukydev/machinery-maintenance/internal/store"
)

// Criteria describes one major-machinery filter request. Every selection
// field is a set of strings; an empty set means no restriction. Year is the
// raw user selection — anything that does not parse as a year disables year
// filtering rather than failing the request.
type Criteria struct {
	MinHours   float64  `json:"min_hours" validate:"gte=0"`
	MinMonths  float64  `json:"min_months" validate:"gte=0"`
	Year       string   `json:"year,omitempty"`
	Vessels    []string `json:"vessels,omitempty"`
	Machinery  []string `json:"machinery,omitempty"`
	JobActions []string `json:"job_actions,omitempty"`
}

// DefaultCriteria returns the standard major-machinery thresholds with no
// dimension restrictions.
func DefaultCriteria() Criteria {
	return Criteria{MinHours: 4000, MinMonths: 30}
}

// FilterMajorMachinery applies the major-machinery interval gate and the
// optional dimension filters to the loaded records, returning the surviving
// subset as a copy. A nil or empty store is a precondition failure, distinct
// from a filter that matches nothing.
//
// The interval gate is strict: a record qualifies only when its raw frequency
// text names the hour or month unit literally and the parsed value meets the
// matching threshold. Day, week and year intervals are excluded even though
// the parser can convert them elsewhere — the gate is deliberately
// conservative.
func FilterMajorMachinery(s *store.Store, parser *frequency.Parser, c Criteria) ([]models.MaintenanceRecord, error) {
	if s == nil || s.Len() == 0 {
		return nil, store.ErrNoData
	}
	if parser == nil {
		parser = frequency.NewParser()
	}

	records := s.Records()
	out := make([]models.MaintenanceRecord, 0, len(records))
	for i := range records {
		if passesIntervalGate(&records[i], parser, c.MinHours, c.MinMonths) {
			out = append(out, records[i])
		}
	}

	out = applyYearFilter(out, c.Year)
	out = applySetFilter(out, c.Vessels, func(r *models.MaintenanceRecord) string { return r.Vessel })
	out = applySetFilter(out, c.Machinery, func(r *models.MaintenanceRecord) string { return r.MachineryLocation })
	out = applySetFilter(out, c.JobActions, func(r *models.MaintenanceRecord) string { return r.JobAction })

	log.WithFields(log.Fields{
		"input":     len(records),
		"matched":   len(out),
		"min_hours": c.MinHours,
		"min_mons":  c.MinMonths,
	}).Debug("Applied major machinery filter")
	return out, nil
}

// passesIntervalGate applies the per-record major-machinery test. Each record
// is evaluated in exactly one unit category, chosen by the literal unit token
// in its own frequency text.
func passesIntervalGate(r *models.MaintenanceRecord, parser *frequency.Parser, minHours, minMonths float64) bool {
	freq := strings.TrimSpace(r.Frequency)
	if freq == "" {
		return false
	}
	switch {
	case frequency.IsHourBased(freq):
		hours, ok := parser.ParseHours(freq)
		return ok && hours >= minHours
	case frequency.IsMonthBased(freq):
		months, ok := parser.ParseMonths(freq)
		return ok && months >= minMonths
	}
	return false
}

// applyYearFilter keeps records due in the target year. Records without a
// parsed due date always pass; an unparseable target year makes the filter a
// no-op.
func applyYearFilter(records []models.MaintenanceRecord, year string) []models.MaintenanceRecord {
	year = strings.TrimSpace(year)
	if year == "" || strings.EqualFold(year, "All Years") {
		return records
	}
	target, err := strconv.Atoi(year)
	if err != nil {
		log.WithField("year", year).Warn("Ignoring invalid year filter")
		return records
	}
	out := records[:0]
	for i := range records {
		if !records[i].HasDueDate() || records[i].CalculatedDueDate.Year() == target {
			out = append(out, records[i])
		}
	}
	return out
}

// applySetFilter keeps records whose field value is in the allowed set. An
// empty set means no restriction.
func applySetFilter(records []models.MaintenanceRecord, allowed []string, get func(*models.MaintenanceRecord) string) []models.MaintenanceRecord {
	if len(allowed) == 0 {
		return records
	}
	set := make(map[string]bool, len(allowed))
	for _, v := range allowed {
		set[v] = true
	}
	out := records[:0]
	for i := range records {
		if set[get(&records[i])] {
			out = append(out, records[i])
		}
	}
	return out
}
