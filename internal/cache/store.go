package cache

import (
	"context"
	"sync"

	"github.com/osustats/osustats/internal/model"
)

// StatusStore persists run records.
type StatusStore interface {
	SaveRun(ctx context.Context, run model.Run) error
	Status(ctx context.Context) (model.Status, error)
}

// MemoryStore is a StatusStore for single-process deployments without Redis.
type MemoryStore struct {
	mu     sync.RWMutex
	status model.Status
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveRun records run as the latest run.
func (m *MemoryStore) SaveRun(ctx context.Context, run model.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.LastRun = &run
	if run.Outcome == model.RunSucceeded {
		m.status.LastSuccess = &run
	}
	return nil
}

// Status returns copies of the stored records.
func (m *MemoryStore) Status(ctx context.Context) (model.Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return model.Status{
		LastRun:     copyRun(m.status.LastRun),
		LastSuccess: copyRun(m.status.LastSuccess),
	}, nil
}

func copyRun(run *model.Run) *model.Run {
	if run == nil {
		return nil
	}
	cp := *run
	if run.Summary != nil {
		summary := *run.Summary
		cp.Summary = &summary
	}
	return &cp
}
