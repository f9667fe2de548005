package status

import (
	"sort"
	"sync"
)

// MetricMap hands out one stable *T per key
// Get locks only on first registration; callers cache the pointer and update it atomically
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
	keys  []string // Sorted, kept in step with items
}

func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric for key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	ptr, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		return ptr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if ptr, ok := m.items[key]; ok {
		return ptr
	}

	ptr = new(T)
	m.items[key] = ptr
	i := sort.SearchStrings(m.keys, key)
	m.keys = append(m.keys, "")
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = key
	return ptr
}

func (m *MetricMap[T]) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Range visits metrics in key order
// The visit runs outside the lock, so it may call Get
func (m *MetricMap[T]) Range(visit func(key string, ptr *T)) {
	m.mu.RLock()
	keys := make([]string, len(m.keys))
	ptrs := make([]*T, len(m.keys))
	for i, k := range m.keys {
		keys[i], ptrs[i] = k, m.items[k]
	}
	m.mu.RUnlock()

	for i, k := range keys {
		visit(k, ptrs[i])
	}
}

func (m *MetricMap[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}
