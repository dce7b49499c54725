package store

import (
	"context"
	"sync"
)

// InMemoryStore keeps records for the life of the process.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []RunRecord
	limit   int
}

// Ensure InMemoryStore implements the Store interface.
var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty store holding at most limit records. Zero means unbounded.
func NewInMemoryStore(limit int) *InMemoryStore {
	return &InMemoryStore{limit: limit}
}

func (m *InMemoryStore) Save(_ context.Context, record RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append([]RunRecord{record}, m.records...)
	if m.limit > 0 && len(m.records) > m.limit {
		m.records = m.records[:m.limit]
	}
	return nil
}

// Close is a no-op; the records stay readable.
func (m *InMemoryStore) Close() error {
	return nil
}

func (m *InMemoryStore) List(_ context.Context, limit int) ([]RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]RunRecord, n)
	copy(out, m.records[:n])
	return out, nil
}
