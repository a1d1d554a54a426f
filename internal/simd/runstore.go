package simd

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/internal/simulation"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunExists    = errors.New("run already exists")
	ErrRunIDMissing = errors.New("run_id is required")
	ErrStoreFull    = errors.New("run store is full")
	// ErrNoSimulation is returned when simulation output is requested from a solve run.
	ErrNoSimulation = errors.New("run has no simulation result")
)

// RunRecord is a run and whatever it produced. Results are immutable once
// attached, so copies share them safely.
type RunRecord struct {
	Run         models.Run             `json:"run"`
	Measures    *analytic.Measures     `json:"measures,omitempty"`
	Result      *simulation.Result     `json:"-"`
	Stats       *models.AggregateStats `json:"stats,omitempty"`
	Observed    *metrics.Observed      `json:"observed,omitempty"`
	Comparison  *metrics.Comparison    `json:"comparison,omitempty"`
	CallbackURL string                 `json:"callback_url,omitempty"`
}

func (r *RunRecord) clone() *RunRecord {
	c := *r
	if r.Run.Metadata != nil {
		c.Run.Metadata = make(map[string]string, len(r.Run.Metadata))
		for k, v := range r.Run.Metadata {
			c.Run.Metadata[k] = v
		}
	}
	return &c
}

// ListFilter narrows RunStore.List. Zero values match everything.
type ListFilter struct {
	Kind   models.RunKind
	Status models.RunStatus
	Limit  int
}

// RunStore keeps runs in memory. When maxRuns is reached the oldest finished
// run is evicted.
type RunStore struct {
	mu      sync.RWMutex
	runs    map[string]*RunRecord
	order   []string
	maxRuns int
}

// NewRunStore creates a store; maxRuns <= 0 means no limit.
func NewRunStore(maxRuns int) *RunStore {
	return &RunStore{
		runs:    make(map[string]*RunRecord),
		maxRuns: maxRuns,
	}
}

// Create registers a pending run. An empty runID is generated.
func (s *RunStore) Create(runID string, kind models.RunKind, params models.QueueParameters, customers int) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if err := utils.ValidateRunID(runID); err != nil {
		return nil, &models.InvalidParameterError{Param: "run_id", Value: runID, Reason: err.Error()}
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrRunExists, runID)
	}
	if s.maxRuns > 0 && len(s.runs) >= s.maxRuns && !s.evictOldestLocked() {
		return nil, fmt.Errorf("%w: %d runs in flight", ErrStoreFull, len(s.runs))
	}

	rec := &RunRecord{
		Run: models.Run{
			ID:        runID,
			Kind:      kind,
			Status:    models.RunStatusPending,
			Params:    params,
			Customers: customers,
			CreatedAt: time.Now().UTC(),
		},
	}
	s.runs[runID] = rec
	s.order = append(s.order, runID)
	return rec.clone(), nil
}

func (s *RunStore) evictOldestLocked() bool {
	for i, id := range s.order {
		if s.runs[id].Run.Status.IsTerminal() {
			delete(s.runs, id)
			s.order = append(s.order[:i], s.order[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a copy of the run.
func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	if !ok {
		return nil, false
	}
	return rec.clone(), true
}

// List returns matching runs, newest first.
func (s *RunStore) List(f ListFilter) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	out := make([]*RunRecord, 0, min(limit, len(s.runs)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		rec := s.runs[s.order[i]]
		if f.Kind != "" && rec.Run.Kind != f.Kind {
			continue
		}
		if f.Status != "" && rec.Run.Status != f.Status {
			continue
		}
		out = append(out, rec.clone())
	}
	return out
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// SetStatus moves a run to status, stamping start and end times.
func (s *RunStore) SetStatus(runID string, status models.RunStatus, errMsg string) (*RunRecord, error) {
	return s.Update(runID, func(rec *RunRecord) {
		rec.Run.Status = status
		if errMsg != "" {
			rec.Run.Error = errMsg
		}
		now := time.Now().UTC()
		switch {
		case status == models.RunStatusRunning && rec.Run.StartedAt.IsZero():
			rec.Run.StartedAt = now
		case status.IsTerminal():
			rec.Run.EndedAt = now
		}
	})
}

// Update applies fn to the stored run under the write lock.
func (s *RunStore) Update(runID string, fn func(*RunRecord)) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	fn(rec)
	return rec.clone(), nil
}
