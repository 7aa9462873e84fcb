package analysis

import (
	"time"

	"github.com/ukydev/machinery-maintenance/internal/frequency"
	"github.com/ukydev/machinery-maintenance/internal/models"
	"github.com/ukydev/machinery-maintenance/internal/store"
)

// Session holds the state of one analysis run: the loaded record store and
// the result of the most recent filter. The caller constructs and threads it
// explicitly; filter and aggregation functions themselves stay pure.
type Session struct {
	ID           string
	Store        *store.Store
	LastCriteria *Criteria
	LastFiltered []models.MaintenanceRecord
	CreatedAt    time.Time
}

// NewSession creates a session around a loaded store.
func NewSession(id string, s *store.Store) *Session {
	return &Session{ID: id, Store: s, CreatedAt: time.Now()}
}

// ApplyFilter runs the major-machinery filter and remembers the result so
// later aggregation and export calls can reuse it.
func (s *Session) ApplyFilter(parser *frequency.Parser, c Criteria) ([]models.MaintenanceRecord, error) {
	filtered, err := FilterMajorMachinery(s.Store, parser, c)
	if err != nil {
		return nil, err
	}
	crit := c
	s.LastCriteria = &crit
	s.LastFiltered = filtered
	return filtered, nil
}

// HasResult reports whether a filter has been applied yet. A filter that
// matched zero records still counts as a result.
func (s *Session) HasResult() bool {
	return s.LastCriteria != nil
}
