// internal/store/memory.go
//
// In-memory implementation of Backend.
// Used in development/testing, or when durability is not required.
//
// Characteristics:
//   - Values keyed by string in a map; copies in and out.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
)

// memory is an in-memory map-based Backend.
type memory struct {
	mu     sync.RWMutex      // guards values
	values map[string][]byte // keyed by session key
}

// NewMemory constructs a new in-memory Backend.
func NewMemory() Backend {
	return &memory{values: make(map[string][]byte)}
}

// Get looks up a value by key.
func (m *memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

// Put adds or replaces the value for key.
func (m *memory) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op.
func (m *memory) Close() error { return nil }
