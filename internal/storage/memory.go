package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps visitor state in process. Namespaces that go untouched
// are dropped by Evict, which Run calls on a timer.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]map[string][]byte
	lastSeen map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]map[string][]byte),
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[namespace][key]
	if !ok {
		return nil, ErrNotFound
	}
	m.lastSeen[namespace] = m.now()
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, namespace, key string, value []byte) error {
	if namespace == "" {
		return ErrMissingNamespace
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}
	v := make([]byte, len(value))
	copy(v, value)
	ns[key] = v
	m.lastSeen[namespace] = m.now()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ns, ok := m.data[namespace]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(m.data, namespace)
		delete(m.lastSeen, namespace)
	}
	return nil
}

// Len reports the number of namespaces currently held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Evict drops every namespace not read or written within ttl and reports
// how many were dropped.
func (m *MemoryStore) Evict(ttl time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	now := m.now()
	for namespace, seen := range m.lastSeen {
		if now.Sub(seen) > ttl {
			delete(m.data, namespace)
			delete(m.lastSeen, namespace)
			n++
		}
	}
	return n
}

// Run evicts idle namespaces every minute until ctx is done. A zero ttl
// disables eviction.
func (m *MemoryStore) Run(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Evict(ttl)
		}
	}
}
