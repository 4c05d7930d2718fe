package db

import (
	"context"
	"sync"
)

// MemoryBackend keeps record sets in process memory. Used in tests and for
// throwaway runs.
type MemoryBackend struct {
	mu   sync.RWMutex
	sets map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sets: make(map[string][]byte)}
}

func (m *MemoryBackend) Load(_ context.Context, set string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.sets[set]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (m *MemoryBackend) Save(_ context.Context, set string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[set] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
