package store

import "sync"

// Memory is an in-process KV used in tests and in environments without a
// durable store. It satisfies the same contract as the SQLite store minus
// persistence across restarts.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

var _ KV = &Memory{}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
