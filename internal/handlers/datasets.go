package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/machinery-maintenance/internal/analysis"
	"github.com/ukydev/machinery-maintenance/internal/db"
	"github.com/ukydev/machinery-maintenance/internal/export"
	"github.com/ukydev/machinery-maintenance/internal/frequency"
	"github.com/ukydev/machinery-maintenance/internal/middleware"
	"github.com/ukydev/machinery-maintenance/internal/models"
	"github.com/ukydev/machinery-maintenance/internal/store"
)

// maxUploadBytes bounds one multipart upload.
const maxUploadBytes = 64 << 20

// SessionRegistry holds the in-memory analysis sessions for the life of the
// process. Record data is never persisted; a restart starts fresh.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*analysis.Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*analysis.Session)}
}

// Put stores a session under its ID.
func (r *SessionRegistry) Put(s *analysis.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get fetches a session by ID.
func (r *SessionRegistry) Get(id string) (*analysis.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// DatasetHandler serves dataset upload, filtering, aggregation and export.
type DatasetHandler struct {
	registry *SessionRegistry
	parser   *frequency.Parser
	audits   db.AuditCollection
	validate *validator.Validate
}

// NewDatasetHandler creates a dataset handler. The audit collection may be
// nil, in which case uploads are not recorded in Mongo.
func NewDatasetHandler(registry *SessionRegistry, parser *frequency.Parser, audits db.AuditCollection) *DatasetHandler {
	if parser == nil {
		parser = frequency.NewParser()
	}
	return &DatasetHandler{
		registry: registry,
		parser:   parser,
		audits:   audits,
		validate: validator.New(),
	}
}

// Upload ingests one or more CSV maintenance exports into a new analysis
// session. Multiple files are merged into a single dataset for cross-vessel
// comparison.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Failed to parse multipart form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "At least one CSV file is required", http.StatusBadRequest)
		return
	}

	st := store.New()
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open %s", fh.Filename), http.StatusBadRequest)
			return
		}
		err = st.LoadCSV(f, fh.Filename)
		f.Close()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to load %s: %v", fh.Filename, err), http.StatusBadRequest)
			return
		}
	}

	session := analysis.NewSession(uuid.NewString(), st)
	h.registry.Put(session)

	h.recordAudit(r, session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dataset_id": session.ID,
		"summary":    st.Summary(),
		"sources":    st.Sources(),
	})
}

func (h *DatasetHandler) recordAudit(r *http.Request, session *analysis.Session) {
	if h.audits == nil {
		return
	}
	uploadedBy := ""
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		uploadedBy = claims.Username
	}
	audit := models.UploadAudit{
		DatasetID:  session.ID,
		UploadedBy: uploadedBy,
		Files:      session.Store.Sources(),
		Records:    session.Store.Len(),
		Vessels:    session.Store.Vessels(),
	}
	if err := h.audits.InsertAudit(r.Context(), audit); err != nil {
		log.WithError(err).Warn("Failed to record upload audit")
	}
}

// GetDataset returns the dataset summary and the distinct values available
// for each filter dimension.
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	st := session.Store
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dataset_id": session.ID,
		"summary":    st.Summary(),
		"sources":    st.Sources(),
		"filter_options": map[string]interface{}{
			"vessels":     st.Vessels(),
			"machinery":   st.MachineryLocations(),
			"job_actions": st.JobActions(),
			"departments": st.Departments(),
		},
		"frequency_distribution": st.FrequencyDistribution(),
	})
}

// Filter applies the major-machinery filter to a dataset and remembers the
// result on the session for the KPI and export endpoints.
func (h *DatasetHandler) Filter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	criteria := analysis.DefaultCriteria()
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&criteria); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filtered, err := session.ApplyFilter(h.parser, criteria)
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			http.Error(w, "No data loaded", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to filter dataset", http.StatusInternalServerError)
		return
	}

	// Zero matches is a normal, displayable state, not an error.
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dataset_id": session.ID,
		"criteria":   criteria,
		"count":      len(filtered),
		"records":    filtered,
	})
}

// kpiRow pairs one KPI table row with its display severities.
type kpiRow struct {
	models.VesselKPI
	QuarterBands [4]analysis.Severity `json:"quarter_bands"`
	TotalBand    analysis.Severity    `json:"total_band"`
}

// KPIs returns the vessel quarterly KPI table and yearly counts for the last
// filtered set.
func (h *DatasetHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.filteredSession(w, r)
	if !ok {
		return
	}

	kpis := analysis.VesselQuarterlyKPIs(session.LastFiltered)
	rows := make([]kpiRow, 0, len(kpis))
	for _, k := range kpis {
		row := kpiRow{VesselKPI: k, TotalBand: analysis.SeverityBand(k.YearTotal)}
		for q, count := range k.Quarters {
			row.QuarterBands[q] = analysis.SeverityBand(count)
		}
		rows = append(rows, row)
	}

	resp := map[string]interface{}{
		"dataset_id":    session.ID,
		"kpis":          rows,
		"yearly_counts": analysis.YearlyCounts(session.LastFiltered),
	}
	if yearStr := r.URL.Query().Get("monthly_for"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			resp["monthly_counts"] = analysis.MonthlyCounts(session.LastFiltered, year)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Machinery returns the machinery breakdown and per-vessel detail for the
// last filtered set.
func (h *DatasetHandler) Machinery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.filteredSession(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dataset_id": session.ID,
		"breakdown":  analysis.MachineryBreakdown(session.LastFiltered, h.parser),
		"by_vessel":  analysis.VesselMachineryDetail(session.LastFiltered),
	})
}

// Export streams the last filtered set as CSV, an Excel workbook, or a text
// report depending on the format query parameter.
func (h *DatasetHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, ok := h.filteredSession(w, r)
	if !ok {
		return
	}

	stamp := time.Now().Format("20060102_150405")
	var err error
	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=machinery_analysis_%s.csv", stamp))
		err = export.WriteCSV(w, session.LastFiltered)
	case "xlsx":
		kpis := analysis.VesselQuarterlyKPIs(session.LastFiltered)
		breakdown := analysis.MachineryBreakdown(session.LastFiltered, h.parser)
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=machinery_analysis_%s.xlsx", stamp))
		err = export.WriteExcel(w, kpis, breakdown)
	case "report":
		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=analysis_report_%s.txt", stamp))
		err = export.WriteReport(w, session.LastFiltered, time.Now())
	default:
		http.Error(w, fmt.Sprintf("Unknown export format %q", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.WithError(err).Error("Failed to write export")
	}
}

// Categorize answers ad-hoc interval categorization for a single frequency
// string.
func (h *DatasetHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	freq := r.URL.Query().Get("frequency")
	if freq == "" {
		http.Error(w, "frequency query parameter is required", http.StatusBadRequest)
		return
	}

	resp := map[string]interface{}{
		"frequency": freq,
		"category":  h.parser.Categorize(freq),
	}
	if hours, ok := h.parser.ParseHours(freq); ok {
		resp["hours"] = hours
	}
	if months, ok := h.parser.ParseMonths(freq); ok {
		resp["months"] = months
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// session resolves the dataset ID path parameter, writing a 404 when the
// dataset does not exist.
func (h *DatasetHandler) session(w http.ResponseWriter, r *http.Request) (*analysis.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Dataset ID is required", http.StatusBadRequest)
		return nil, false
	}
	session, ok := h.registry.Get(id)
	if !ok {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

// filteredSession additionally requires that a filter has been applied, so
// the aggregation endpoints never silently run on an unfiltered dataset.
func (h *DatasetHandler) filteredSession(w http.ResponseWriter, r *http.Request) (*analysis.Session, bool) {
	session, ok := h.session(w, r)
	if !ok {
		return nil, false
	}
	if !session.HasResult() {
		http.Error(w, "No filter applied to this dataset yet", http.StatusConflict)
		return nil, false
	}
	return session, true
}
