package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/fairyhunter13/brand-price-service/internal/model"
)

// Memory is an in-process Repo used by tests and as a stand-in when no
// database is configured. It applies the same last-write-wins sequence rule
// as the sqlite implementation.
type Memory struct {
	mu      sync.Mutex
	brands  map[uint64]model.Brand
	lastSeq map[uint64]uint64
}

// NewMemory creates an empty in-memory Repo.
func NewMemory() *Memory {
	return &Memory{brands: make(map[uint64]model.Brand), lastSeq: make(map[uint64]uint64)}
}

// LoadAll returns stored brands ordered by id.
func (m *Memory) LoadAll(ctx context.Context) ([]model.Brand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Brand, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Save stores a copy of the brand unless seq is stale.
func (m *Memory) Save(ctx context.Context, b model.Brand, seq uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.lastSeq[b.ID]; ok && seq <= last {
		return nil
	}
	m.lastSeq[b.ID] = seq
	m.brands[b.ID] = b.Clone()
	return nil
}

// Delete removes the brand unless seq is stale.
func (m *Memory) Delete(ctx context.Context, id uint64, seq uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.lastSeq[id]; ok && seq <= last {
		return nil
	}
	m.lastSeq[id] = seq
	delete(m.brands, id)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Len reports the number of stored brands.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.brands)
}

// GetSaved returns the stored copy of a brand, for test assertions.
func (m *Memory) GetSaved(id uint64) (model.Brand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.brands[id]
	if !ok {
		return model.Brand{}, false
	}
	return b.Clone(), true
}
