package models

import "time"

// MaintenanceRecord is one normalized row of a vessel maintenance export.
// Records are immutable after ingestion; filtering and aggregation operate on
// copies and never write derived values back.
type MaintenanceRecord struct {
	Vessel            string     `json:"vessel"`
	Department        string     `json:"department,omitempty"`
	MachineryLocation string     `json:"machinery_location"`
	JobCode           string     `json:"job_code"`
	Title             string     `json:"title,omitempty"`
	Frequency         string     `json:"frequency,omitempty"`
	CalculatedDueDate *time.Time `json:"calculated_due_date,omitempty"`
	LastDoneDate      *time.Time `json:"last_done_date,omitempty"`
	CompletionDate    *time.Time `json:"completion_date,omitempty"`
	JobStatus         string     `json:"job_status,omitempty"`
	JobAction         string     `json:"job_action,omitempty"`

	// Passthrough numeric fields, carried but not interpreted by the
	// filtering or aggregation code.
	MachineryRunningHours *float64 `json:"machinery_running_hours,omitempty"`
	RemainingRunningHours *float64 `json:"remaining_running_hours,omitempty"`
	PerformingRank        string   `json:"performing_rank,omitempty"`
}

// HasDueDate reports whether the record carries a parsed due date.
func (r *MaintenanceRecord) HasDueDate() bool {
	return r.CalculatedDueDate != nil && !r.CalculatedDueDate.IsZero()
}

// IsPending reports whether the job is still pending.
func (r *MaintenanceRecord) IsPending() bool {
	return r.JobStatus == "Pending"
}

// VesselKPI is one row of the vessel quarterly KPI table: job counts per
// quarter for one vessel and year.
type VesselKPI struct {
	Vessel    string `json:"vessel"`
	Year      int    `json:"year"`
	Quarters  [4]int `json:"quarters"`
	YearTotal int    `json:"year_total"`
}

// MachineryStat summarizes the jobs scheduled against one machinery location.
type MachineryStat struct {
	MachineryLocation string   `json:"machinery_location"`
	TotalJobs         int      `json:"total_jobs"`
	PendingJobs       int      `json:"pending_jobs"`
	Departments       []string `json:"departments"`
	FrequencySample   []string `json:"frequency_sample"`
	// IntervalHours is the cross-unit normalization of the first sampled
	// frequency, for display comparison across unit families.
	IntervalHours *float64 `json:"interval_hours,omitempty"`
}

// VesselMachineryDetail is the per-vessel drill-down of a machinery location.
type VesselMachineryDetail struct {
	Vessel            string   `json:"vessel"`
	MachineryLocation string   `json:"machinery_location"`
	JobCount          int      `json:"job_count"`
	FrequencySample   []string `json:"frequency_sample"`
	JobActionSample   []string `json:"job_action_sample"`
}

// SummaryStats describes a loaded dataset before any filtering.
type SummaryStats struct {
	TotalRecords       int        `json:"total_records"`
	Vessels            int        `json:"vessels"`
	Departments        int        `json:"departments"`
	MachineryLocations int        `json:"machinery_locations"`
	PendingJobs        int        `json:"pending_jobs"`
	MinDueDate         *time.Time `json:"min_due_date,omitempty"`
	MaxDueDate         *time.Time `json:"max_due_date,omitempty"`
}

// SourceFile records the ingestion of one uploaded export file.
type SourceFile struct {
	Filename string   `bson:"filename" json:"filename"`
	Records  int      `bson:"records" json:"records"`
	Vessels  []string `bson:"vessels" json:"vessels"`
	Checksum string   `bson:"checksum" json:"checksum"`
}
