package store

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/machinery-maintenance/internal/dates"
	"github.com/ukydev/machinery-maintenance/internal/models"
)

var (
	// ErrNoData is returned when an operation requires records but none
	// have been loaded.
	ErrNoData = errors.New("no data loaded")
	// ErrEmptyFile is returned when a CSV source has no data rows.
	ErrEmptyFile = errors.New("csv file contains no records")
)

// requiredColumns must be present in every export for filtering and grouping
// to work.
var requiredColumns = []string{"Job Code", "Frequency", "Calculated Due Date", "Machinery Location"}

// Store holds the normalized in-memory collection of maintenance records for
// one analysis session. It is built once from one or more CSV sources and
// immutable afterwards.
type Store struct {
	records []models.MaintenanceRecord
	sources []models.SourceFile
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Records returns the loaded records. Callers must not mutate the returned
// slice.
func (s *Store) Records() []models.MaintenanceRecord {
	return s.records
}

// Sources returns the ingestion audit for each loaded file.
func (s *Store) Sources() []models.SourceFile {
	return s.sources
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// LoadCSV ingests one maintenance export. Within-file record order is
// preserved; rows that are blank across every field are dropped. A missing
// required column aborts the load.
func (s *Store) LoadCSV(r io.Reader, filename string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[cleanHeader(h)] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var (
		records []models.MaintenanceRecord
		vessels []string
		seen    = map[string]bool{}
	)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).WithField("file", filename).Warn("Skipping malformed CSV row")
			continue
		}
		if isBlankRow(row) {
			continue
		}
		rec := parseRow(row, cols)
		if rec.Vessel != "" && !seen[rec.Vessel] {
			seen[rec.Vessel] = true
			vessels = append(vessels, rec.Vessel)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return ErrEmptyFile
	}

	sum := sha256.Sum256(data)
	s.records = append(s.records, records...)
	s.sources = append(s.sources, models.SourceFile{
		Filename: filename,
		Records:  len(records),
		Vessels:  vessels,
		Checksum: hex.EncodeToString(sum[:]),
	})

	log.WithFields(log.Fields{
		"file":    filename,
		"records": len(records),
		"vessels": len(vessels),
	}).Info("Loaded maintenance export")
	return nil
}

// cleanHeader strips the UTF-8 BOM and surrounding whitespace from a column
// name.
func cleanHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cell fetches a trimmed cell value by column name. Literal "nan" and "None"
// markers from upstream tooling count as empty.
func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	v := strings.TrimSpace(row[i])
	if v == "nan" || v == "None" {
		return ""
	}
	return v
}

func parseRow(row []string, cols map[string]int) models.MaintenanceRecord {
	rec := models.MaintenanceRecord{
		Vessel:            cell(row, cols, "Vessel"),
		Department:        cell(row, cols, "Department"),
		MachineryLocation: cell(row, cols, "Machinery Location"),
		JobCode:           cell(row, cols, "Job Code"),
		Title:             cell(row, cols, "Title"),
		Frequency:         cell(row, cols, "Frequency"),
		JobStatus:         cell(row, cols, "Job Status"),
		JobAction:         cell(row, cols, "Job Action"),
		PerformingRank:    cell(row, cols, "Performing Rank"),
	}
	if rec.Vessel == "" {
		rec.Vessel = "Unknown"
	}
	if rec.MachineryLocation == "" {
		rec.MachineryLocation = "Unknown"
	}
	rec.CalculatedDueDate = parseDateCell(row, cols, "Calculated Due Date")
	rec.LastDoneDate = parseDateCell(row, cols, "Last Done Date")
	rec.CompletionDate = parseDateCell(row, cols, "Completion Date")
	rec.MachineryRunningHours = parseNumericCell(row, cols, "Machinery Running Hours")
	rec.RemainingRunningHours = parseNumericCell(row, cols, "Remaining Running Hours")
	return rec
}

// parseDateCell parses a date column; garbage dates become nil, never a
// partial value.
func parseDateCell(row []string, cols map[string]int, name string) *time.Time {
	v := cell(row, cols, name)
	if v == "" {
		return nil
	}
	t, ok := dates.Parse(v)
	if !ok {
		return nil
	}
	return &t
}

func parseNumericCell(row []string, cols map[string]int, name string) *float64 {
	v := cell(row, cols, name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

// Merge combines several stores into one, concatenating in argument order.
// Within-file order is preserved; cross-file order carries no meaning.
func Merge(stores ...*Store) *Store {
	merged := New()
	for _, st := range stores {
		if st == nil {
			continue
		}
		merged.records = append(merged.records, st.records...)
		merged.sources = append(merged.sources, st.sources...)
	}
	return merged
}

// Summary computes dataset-level statistics for the loaded records.
func (s *Store) Summary() models.SummaryStats {
	stats := models.SummaryStats{TotalRecords: len(s.records)}
	vessels := map[string]bool{}
	departments := map[string]bool{}
	machinery := map[string]bool{}
	for i := range s.records {
		r := &s.records[i]
		vessels[r.Vessel] = true
		if r.Department != "" {
			departments[r.Department] = true
		}
		machinery[r.MachineryLocation] = true
		if r.IsPending() {
			stats.PendingJobs++
		}
		if r.HasDueDate() {
			d := *r.CalculatedDueDate
			if stats.MinDueDate == nil || d.Before(*stats.MinDueDate) {
				t := d
				stats.MinDueDate = &t
			}
			if stats.MaxDueDate == nil || d.After(*stats.MaxDueDate) {
				t := d
				stats.MaxDueDate = &t
			}
		}
	}
	stats.Vessels = len(vessels)
	stats.Departments = len(departments)
	stats.MachineryLocations = len(machinery)
	return stats
}

// FrequencyDistribution counts how often each raw frequency string occurs.
func (s *Store) FrequencyDistribution() map[string]int {
	dist := make(map[string]int)
	for i := range s.records {
		if f := s.records[i].Frequency; f != "" {
			dist[f]++
		}
	}
	return dist
}

// Vessels returns the distinct vessel names, sorted.
func (s *Store) Vessels() []string {
	return s.distinct(func(r *models.MaintenanceRecord) string { return r.Vessel })
}

// MachineryLocations returns the distinct machinery locations, sorted.
func (s *Store) MachineryLocations() []string {
	return s.distinct(func(r *models.MaintenanceRecord) string { return r.MachineryLocation })
}

// JobActions returns the distinct job actions, sorted.
func (s *Store) JobActions() []string {
	return s.distinct(func(r *models.MaintenanceRecord) string { return r.JobAction })
}

// Departments returns the distinct departments, sorted.
func (s *Store) Departments() []string {
	return s.distinct(func(r *models.MaintenanceRecord) string { return r.Department })
}

func (s *Store) distinct(get func(*models.MaintenanceRecord) string) []string {
	seen := map[string]bool{}
	var out []string
	for i := range s.records {
		v := get(&s.records[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
