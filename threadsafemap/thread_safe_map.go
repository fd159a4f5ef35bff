// Package threadsafemap provides a generic map guarded by a RWMutex. Fan-out
// helpers use it as the fan-in point where concurrently finishing goroutines
// deposit their results.
package threadsafemap

import (
	"maps"
	"slices"
	"sync"
)

// ThreadSafeMap is a generic map implementation that supports concurrent read and write operations safely.
type ThreadSafeMap[K comparable, V any] struct {
	data map[K]V
	mu   sync.RWMutex
	once sync.Once
}

// NewThreadSafeMap returns a new instance of a thread-safe map with initialized internal storage.
func NewThreadSafeMap[K comparable, V any]() *ThreadSafeMap[K, V] {
	return &ThreadSafeMap[K, V]{
		data: make(map[K]V),
	}
}

// NewThreadSafeMapWithCapacity is NewThreadSafeMap with a size hint, used when
// the number of writers is known up front.
func NewThreadSafeMapWithCapacity[K comparable, V any](capacity int) *ThreadSafeMap[K, V] {
	return &ThreadSafeMap[K, V]{
		data: make(map[K]V, capacity),
	}
}

// Copy returns a new copy of the current map's content.
func (m *ThreadSafeMap[K, V]) Copy() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.data)
}

// Delete removes the specified key from the map if it exists.
func (m *ThreadSafeMap[K, V]) Delete(key K) {
	m.lazyInit()
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

// Get retrieves the value for a key and a boolean indicating whether it was found.
func (m *ThreadSafeMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	val, exists := m.data[key]
	m.mu.RUnlock()

	return val, exists
}

// GetOrSet retrieves the value for a key or stores value when absent.
// The boolean reports whether the key already existed.
func (m *ThreadSafeMap[K, V]) GetOrSet(key K, value V) (V, bool) {
	m.lazyInit()
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, exists := m.data[key]; exists {
		return existing, true
	}

	m.data[key] = value

	return value, false
}

// Has checks whether a given key exists in the map.
func (m *ThreadSafeMap[K, V]) Has(key K) bool {
	_, exists := m.Get(key)

	return exists
}

// Keys returns the keys in unspecified order.
func (m *ThreadSafeMap[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Collect(maps.Keys(m.data))
}

// Length returns the total number of key-value pairs in the map.
func (m *ThreadSafeMap[K, V]) Length() int {
	m.mu.RLock()
	length := len(m.data)
	m.mu.RUnlock()

	return length
}

// Set sets or updates the value for a given key.
func (m *ThreadSafeMap[K, V]) Set(key K, value V) {
	m.lazyInit()
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
}

// Update replaces the value of key with fn(old, exists) under the write lock.
func (m *ThreadSafeMap[K, V]) Update(key K, fn func(old V, exists bool) V) {
	m.lazyInit()
	m.mu.Lock()
	old, exists := m.data[key]
	m.data[key] = fn(old, exists)
	m.mu.Unlock()
}

// IterateOnCopy calls fn for each pair of a snapshot, without holding the lock.
func (m *ThreadSafeMap[K, V]) IterateOnCopy(fn func(K, V)) {
	for k, v := range m.Copy() {
		fn(k, v)
	}
}

// lazyInit lets the zero ThreadSafeMap accept writes. Callers hold no lock.
func (m *ThreadSafeMap[K, V]) lazyInit() {
	m.once.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.data == nil {
			m.data = make(map[K]V)
		}
	})
}
