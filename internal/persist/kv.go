// Package persist saves the diagram to a small local key/value store and
// restores it on the next start.
package persist

import (
	"sync"
	"time"
)

// KV is a string-keyed store whose entries may expire.
// A ttl of zero or less means the entry never expires.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string, ttl time.Duration) error
	Delete(key string) error
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryKV keeps entries in process memory. Mostly useful for tests and
// for running the editor without touching disk.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]memoryEntry), now: time.Now}
}

// WithClock replaces the time source used for expiry checks.
func (m *MemoryKV) WithClock(now func() time.Time) *MemoryKV {
	m.now = now
	return m
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryKV) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
