package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukydev/machinery-maintenance/internal/analysis"
	"github.com/ukydev/machinery-maintenance/internal/frequency"
	"github.com/ukydev/machinery-maintenance/internal/models"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"Vessel", "Department", "Machinery Location", "Job Code", "Title",
	"Frequency", "Calculated Due Date", "Job Status", "Job Action",
}

// WriteCSV writes the filtered record set as a CSV export.
func WriteCSV(w io.Writer, records []models.MaintenanceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range records {
		r := &records[i]
		due := ""
		if r.HasDueDate() {
			due = r.CalculatedDueDate.Format(dateLayout)
		}
		row := []string{
			r.Vessel, r.Department, r.MachineryLocation, r.JobCode, r.Title,
			r.Frequency, due, r.JobStatus, r.JobAction,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExcel writes an Excel workbook with the KPI table and the machinery
// breakdown on separate sheets.
func WriteExcel(w io.Writer, kpis []models.VesselKPI, breakdown []models.MachineryStat) error {
	f := excelize.NewFile()
	defer f.Close()

	const kpiSheet = "Vessel KPIs"
	f.SetSheetName("Sheet1", kpiSheet)
	kpiHeaders := []interface{}{"Vessel", "Year", "Q1", "Q2", "Q3", "Q4", "Year Total"}
	if err := f.SetSheetRow(kpiSheet, "A1", &kpiHeaders); err != nil {
		return err
	}
	for i, k := range kpis {
		row := []interface{}{
			k.Vessel, k.Year,
			k.Quarters[0], k.Quarters[1], k.Quarters[2], k.Quarters[3],
			k.YearTotal,
		}
		if err := f.SetSheetRow(kpiSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	const machinerySheet = "Machinery"
	if _, err := f.NewSheet(machinerySheet); err != nil {
		return err
	}
	machineryHeaders := []interface{}{"Machinery Location", "Total Jobs", "Pending Jobs", "Departments", "Frequencies"}
	if err := f.SetSheetRow(machinerySheet, "A1", &machineryHeaders); err != nil {
		return err
	}
	for i, st := range breakdown {
		row := []interface{}{
			st.MachineryLocation, st.TotalJobs, st.PendingJobs,
			strings.Join(st.Departments, ", "),
			strings.Join(st.FrequencySample, ", "),
		}
		if err := f.SetSheetRow(machinerySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteReport writes a plain-text analysis report of the filtered set:
// summary statistics, vessel and department breakdowns, top machinery
// locations and the yearly schedule.
func WriteReport(w io.Writer, records []models.MaintenanceRecord, generatedAt time.Time) error {
	var b strings.Builder
	b.WriteString("MACHINERY MAINTENANCE ANALYSIS REPORT\n")
	fmt.Fprintf(&b, "Generated on: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("=====================================\n\n")

	vessels := map[string]int{}
	departments := map[string]int{}
	machinery := map[string]int{}
	jobCodes := map[string]bool{}
	for i := range records {
		r := &records[i]
		vessels[r.Vessel]++
		if r.Department != "" {
			departments[r.Department]++
		}
		machinery[r.MachineryLocation]++
		jobCodes[r.JobCode] = true
	}

	b.WriteString("SUMMARY STATISTICS:\n")
	fmt.Fprintf(&b, "- Total Jobs: %d\n", len(records))
	fmt.Fprintf(&b, "- Unique Machinery Locations: %d\n", len(machinery))
	fmt.Fprintf(&b, "- Unique Vessels: %d\n", len(vessels))
	fmt.Fprintf(&b, "- Unique Departments: %d\n", len(departments))
	fmt.Fprintf(&b, "- Unique Job Codes: %d\n", len(jobCodes))

	b.WriteString("\nVESSEL BREAKDOWN:\n")
	for _, name := range sortedKeys(vessels) {
		fmt.Fprintf(&b, "- %s: %d jobs\n", name, vessels[name])
	}

	b.WriteString("\nDEPARTMENT BREAKDOWN:\n")
	for _, kv := range topCounts(departments, 10) {
		fmt.Fprintf(&b, "- %s: %d jobs\n", kv.name, kv.count)
	}

	b.WriteString("\nTOP MACHINERY LOCATIONS:\n")
	for _, kv := range topCounts(machinery, 10) {
		fmt.Fprintf(&b, "- %s: %d jobs\n", kv.name, kv.count)
	}

	yearly := analysis.YearlyCounts(records)
	if len(yearly) > 0 {
		b.WriteString("\nYEARLY SCHEDULE:\n")
		years := make([]int, 0, len(yearly))
		for y := range yearly {
			years = append(years, y)
		}
		sort.Ints(years)
		for _, y := range years {
			fmt.Fprintf(&b, "- %d: %d jobs\n", y, yearly[y])
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCategoryReport writes the interval category of each distinct
// frequency string, for ad-hoc inspection of the parser's view of a dataset.
func WriteCategoryReport(w io.Writer, distribution map[string]int, parser *frequency.Parser) error {
	if parser == nil {
		parser = frequency.NewParser()
	}
	var b strings.Builder
	b.WriteString("FREQUENCY CATEGORIES:\n")
	for _, freq := range sortedKeys(distribution) {
		fmt.Fprintf(&b, "- %q (%d jobs): %s\n", freq, distribution[freq], parser.Categorize(freq))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type nameCount struct {
	name  string
	count int
}

func topCounts(counts map[string]int, limit int) []nameCount {
	out := make([]nameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, nameCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
