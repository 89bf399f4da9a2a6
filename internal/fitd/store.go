package fitd

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/kinfit/internal/report"
)

// FitStatus is the lifecycle state of a fit record
type FitStatus string

const (
	StatusPending   FitStatus = "pending"
	StatusRunning   FitStatus = "running"
	StatusCompleted FitStatus = "completed"
	StatusFailed    FitStatus = "failed"
)

// ParseStatus parses a status filter; the empty string matches every status
func ParseStatus(s string) (FitStatus, error) {
	switch FitStatus(s) {
	case "", StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return FitStatus(s), nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, s)
	}
}

// FitRecord is one submitted fit and, once finished, its report
type FitRecord struct {
	ID              string         `json:"id"`
	Status          FitStatus      `json:"status"`
	Model           string         `json:"model"`
	Dataset         string         `json:"dataset"`
	Error           string         `json:"error,omitempty"`
	CreatedAtUnixMs int64          `json:"created_at_unix_ms"`
	StartedAtUnixMs int64          `json:"started_at_unix_ms,omitempty"`
	EndedAtUnixMs   int64          `json:"ended_at_unix_ms,omitempty"`
	Report          *report.Report `json:"report,omitempty"`
}

// FitStore keeps fit records in memory for the lifetime of the process
type FitStore struct {
	mu   sync.RWMutex
	fits map[string]*FitRecord
}

func NewFitStore() *FitStore {
	return &FitStore{
		fits: make(map[string]*FitRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

// Create stores a pending record under a new random ID
func (s *FitStore) Create(model, dataset string) FitRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &FitRecord{
		ID:              uuid.NewString(),
		Status:          StatusPending,
		Model:           model,
		Dataset:         dataset,
		CreatedAtUnixMs: nowUnixMs(),
	}
	s.fits[rec.ID] = rec
	return *rec
}

// Get returns a snapshot of the record
func (s *FitStore) Get(id string) (FitRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.fits[id]
	if !ok {
		return FitRecord{}, false
	}
	return *rec, true
}

// List returns records newest first, optionally filtered by status
func (s *FitStore) List(limit, offset int, status FitStatus) []FitRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	all := make([]FitRecord, 0, len(s.fits))
	for _, rec := range s.fits {
		if status != "" && rec.Status != status {
			continue
		}
		all = append(all, *rec)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAtUnixMs != all[j].CreatedAtUnixMs {
			return all[i].CreatedAtUnixMs > all[j].CreatedAtUnixMs
		}
		return all[i].ID < all[j].ID
	})

	if offset >= len(all) {
		return []FitRecord{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// SetRunning marks a pending record as running
func (s *FitStore) SetRunning(id string) error {
	return s.update(id, func(rec *FitRecord) {
		rec.Status = StatusRunning
		rec.StartedAtUnixMs = nowUnixMs()
	})
}

// SetCompleted attaches the report and marks the record completed
func (s *FitStore) SetCompleted(id string, rep *report.Report) error {
	return s.update(id, func(rec *FitRecord) {
		rec.Status = StatusCompleted
		rec.Report = rep
		rec.EndedAtUnixMs = nowUnixMs()
	})
}

// SetFailed records the error and marks the record failed
func (s *FitStore) SetFailed(id string, errMsg string) error {
	return s.update(id, func(rec *FitRecord) {
		rec.Status = StatusFailed
		rec.Error = errMsg
		rec.EndedAtUnixMs = nowUnixMs()
	})
}

func (s *FitStore) update(id string, fn func(*FitRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.fits[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFitNotFound, id)
	}
	fn(rec)
	return nil
}
