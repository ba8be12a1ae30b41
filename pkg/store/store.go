// Package store records synthesized runs so they can be fetched later.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"logistics_router/pkg/report"
	"logistics_router/pkg/synth"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one synthesized and solved network.
type RunRecord struct {
	ID        string           `json:"id"`
	Seed      int64            `json:"seed"`
	CreatedAt time.Time        `json:"created_at"`
	Config    synth.Config     `json:"config"`
	Build     synth.BuildStats `json:"build"`
	Summary   report.Summary   `json:"summary"`
}

// NewRunID returns a fresh run id.
func NewRunID() string {
	return uuid.NewString()
}

// RunStore persists run records.
type RunStore interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
}

// MemoryRunStore keeps runs in process memory.
type MemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

// NewMemoryRunStore creates an empty in-memory store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]*RunRecord)}
}

func (s *MemoryRunStore) SaveRun(_ context.Context, rec *RunRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New("save run: record id must not be empty")
	}
	cp := *rec
	s.mu.Lock()
	s.runs[rec.ID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryRunStore) GetRun(_ context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	rec, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrRunNotFound
	}
	cp := *rec
	return &cp, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *MemoryRunStore) ListRuns(_ context.Context, limit int) ([]*RunRecord, error) {
	s.mu.RLock()
	out := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		cp := *rec
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
