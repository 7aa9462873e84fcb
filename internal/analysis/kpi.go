package analysis

import (
	"sort"

	"github.com/ukydev/machinery-maintenance/internal/dates"
	"github.com/ukydev/machinery-maintenance/internal/frequency"
	"github.com/ukydev/machinery-maintenance/internal/models"
)

// frequencySampleCap limits how many distinct frequency strings a breakdown
// row carries. The cap is part of the contract, not a truncation artifact.
const frequencySampleCap = 3

// jobActionSampleCap limits the job action sample in the per-vessel detail.
const jobActionSampleCap = 2

// Severity bands a bucket count for display coloring.
type Severity string

const (
	SeverityNone   Severity = "none"   // no jobs due
	SeverityLow    Severity = "low"    // 1-10 jobs
	SeverityMedium Severity = "medium" // 11-50 jobs
	SeverityHigh   Severity = "high"   // 51+ jobs
)

// SeverityBand maps a bucket count to its display severity.
func SeverityBand(count int) Severity {
	switch {
	case count == 0:
		return SeverityNone
	case count <= 10:
		return SeverityLow
	case count <= 50:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// VesselQuarterlyKPIs buckets records by vessel, year and quarter, counting
// jobs per bucket. Records without a parsed due date are discarded — there is
// nothing to bucket them by. Buckets count jobs, not distinct machinery
// locations: a machinery item due twice in one quarter counts twice.
//
// The year total is computed directly from the vessel's records in that year,
// not by summing quarters.
func VesselQuarterlyKPIs(records []models.MaintenanceRecord) []models.VesselKPI {
	type key struct {
		vessel string
		year   int
	}
	rows := map[key]*models.VesselKPI{}
	for i := range records {
		r := &records[i]
		if !r.HasDueDate() {
			continue
		}
		due := *r.CalculatedDueDate
		k := key{vessel: r.Vessel, year: due.Year()}
		row, ok := rows[k]
		if !ok {
			row = &models.VesselKPI{Vessel: k.vessel, Year: k.year}
			rows[k] = row
		}
		row.Quarters[dates.Quarter(due)-1]++
		row.YearTotal++
	}

	out := make([]models.VesselKPI, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Vessel != out[j].Vessel {
			return out[i].Vessel < out[j].Vessel
		}
		return out[i].Year < out[j].Year
	})
	return out
}

// YearlyCounts maps each due year to its job count. Records without a due
// date are skipped.
func YearlyCounts(records []models.MaintenanceRecord) map[int]int {
	counts := make(map[int]int)
	for i := range records {
		if records[i].HasDueDate() {
			counts[records[i].CalculatedDueDate.Year()]++
		}
	}
	return counts
}

// MonthlyCounts maps month names to job counts for records due in the given
// year.
func MonthlyCounts(records []models.MaintenanceRecord, year int) map[string]int {
	counts := make(map[string]int)
	for i := range records {
		r := &records[i]
		if r.HasDueDate() && r.CalculatedDueDate.Year() == year {
			counts[dates.MonthName(*r.CalculatedDueDate)]++
		}
	}
	return counts
}

// MachineryBreakdown summarizes jobs per machinery location: total and
// pending counts, the distinct departments involved, and a first-seen sample
// of up to three distinct frequency strings. Rows are sorted by job count
// descending, location name as tie-break.
func MachineryBreakdown(records []models.MaintenanceRecord, parser *frequency.Parser) []models.MachineryStat {
	if parser == nil {
		parser = frequency.NewParser()
	}
	stats := map[string]*models.MachineryStat{}
	order := []string{}
	for i := range records {
		r := &records[i]
		st, ok := stats[r.MachineryLocation]
		if !ok {
			st = &models.MachineryStat{MachineryLocation: r.MachineryLocation}
			stats[r.MachineryLocation] = st
			order = append(order, r.MachineryLocation)
		}
		st.TotalJobs++
		if r.IsPending() {
			st.PendingJobs++
		}
		if r.Department != "" && !contains(st.Departments, r.Department) {
			st.Departments = append(st.Departments, r.Department)
		}
		if r.Frequency != "" && len(st.FrequencySample) < frequencySampleCap && !contains(st.FrequencySample, r.Frequency) {
			st.FrequencySample = append(st.FrequencySample, r.Frequency)
		}
	}

	out := make([]models.MachineryStat, 0, len(order))
	for _, loc := range order {
		st := stats[loc]
		if len(st.FrequencySample) > 0 {
			if hours, ok := parser.NormalizeHours(st.FrequencySample[0]); ok {
				st.IntervalHours = &hours
			}
		}
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalJobs != out[j].TotalJobs {
			return out[i].TotalJobs > out[j].TotalJobs
		}
		return out[i].MachineryLocation < out[j].MachineryLocation
	})
	return out
}

// VesselMachineryDetail groups jobs by vessel and machinery location with
// small first-seen samples of frequencies and job actions. Rows are sorted by
// vessel, then job count descending.
func VesselMachineryDetail(records []models.MaintenanceRecord) []models.VesselMachineryDetail {
	type key struct {
		vessel    string
		machinery string
	}
	details := map[key]*models.VesselMachineryDetail{}
	order := []key{}
	for i := range records {
		r := &records[i]
		k := key{vessel: r.Vessel, machinery: r.MachineryLocation}
		d, ok := details[k]
		if !ok {
			d = &models.VesselMachineryDetail{Vessel: r.Vessel, MachineryLocation: r.MachineryLocation}
			details[k] = d
			order = append(order, k)
		}
		d.JobCount++
		if r.Frequency != "" && len(d.FrequencySample) < frequencySampleCap && !contains(d.FrequencySample, r.Frequency) {
			d.FrequencySample = append(d.FrequencySample, r.Frequency)
		}
		if r.JobAction != "" && len(d.JobActionSample) < jobActionSampleCap && !contains(d.JobActionSample, r.JobAction) {
			d.JobActionSample = append(d.JobActionSample, r.JobAction)
		}
	}

	out := make([]models.VesselMachineryDetail, 0, len(order))
	for _, k := range order {
		out = append(out, *details[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Vessel != out[j].Vessel {
			return out[i].Vessel < out[j].Vessel
		}
		return out[i].JobCount > out[j].JobCount
	})
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
