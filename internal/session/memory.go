package session

import (
	"context"
	"sync"
)

// MemoryKV keeps entries in process memory. Entries do not survive a restart.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[sessionID][key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[sessionID] == nil {
		m.entries[sessionID] = make(map[string]string)
	}
	m.entries[sessionID][key] = value
	return nil
}
