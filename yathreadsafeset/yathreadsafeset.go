// Package yathreadsafeset provides a generic set guarded by a RWMutex. It is the
// default tag container of yatask: task tags are shared by every snapshot of a
// task lineage, so they must tolerate concurrent readers.
package yathreadsafeset

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ThreadSafeSet is a generic set implementation that supports concurrent read and write operations safely.
type ThreadSafeSet[K comparable] struct {
	data map[K]struct{}
	mu   sync.RWMutex
	once sync.Once
}

// NewThreadSafeSet returns a new set holding values.
//
// Example usage:
//
//	tags := yathreadsafeset.NewThreadSafeSet("profile", "critical")
func NewThreadSafeSet[K comparable](values ...K) *ThreadSafeSet[K] {
	set := &ThreadSafeSet[K]{
		data: make(map[K]struct{}, len(values)),
	}

	for _, value := range values {
		set.data[value] = struct{}{}
	}

	return set
}

// Clear removes all values from the set.
func (m *ThreadSafeSet[K]) Clear() {
	m.mu.Lock()
	m.data = make(map[K]struct{})
	m.mu.Unlock()
}

// Copy returns an independent set with the same content.
func (m *ThreadSafeSet[K]) Copy() *ThreadSafeSet[K] {
	return &ThreadSafeSet[K]{data: m.CopyRaw()}
}

// CopyRaw returns the content as a plain map.
func (m *ThreadSafeSet[K]) CopyRaw() map[K]struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copySet := make(map[K]struct{}, len(m.data))
	maps.Copy(copySet, m.data)

	return copySet
}

// Delete removes value from the set if it exists.
func (m *ThreadSafeSet[K]) Delete(value K) {
	m.lazyInit()
	m.mu.Lock()
	delete(m.data, value)
	m.mu.Unlock()
}

// Has reports whether value is in the set.
func (m *ThreadSafeSet[K]) Has(value K) bool {
	m.mu.RLock()
	_, exists := m.data[value]
	m.mu.RUnlock()

	return exists
}

// Set adds value to the set.
func (m *ThreadSafeSet[K]) Set(value K) {
	m.lazyInit()
	m.mu.Lock()
	m.data[value] = struct{}{}
	m.mu.Unlock()
}

// Length returns the number of values.
func (m *ThreadSafeSet[K]) Length() int {
	m.mu.RLock()
	length := len(m.data)
	m.mu.RUnlock()

	return length
}

// IsEmpty reports whether the set has no values.
func (m *ThreadSafeSet[K]) IsEmpty() bool {
	return m.Length() == 0
}

// Values returns the values in unspecified order.
func (m *ThreadSafeSet[K]) Values() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Collect(maps.Keys(m.data))
}

// IsSuperset reports whether every value of other is also in m.
//
// DEADLOCK: m and other must not be the same set while a writer is waiting on it.
//
// Example usage:
//
//	tags := yathreadsafeset.NewThreadSafeSet("a", "b", "c")
//	tags.IsSuperset(yathreadsafeset.NewThreadSafeSet("a", "c")) // true
func (m *ThreadSafeSet[K]) IsSuperset(other *ThreadSafeSet[K]) bool {
	for _, value := range other.Values() {
		if !m.Has(value) {
			return false
		}
	}

	return true
}

// Intersects reports whether m and other share at least one value.
func (m *ThreadSafeSet[K]) Intersects(other *ThreadSafeSet[K]) bool {
	return slices.ContainsFunc(other.Values(), m.Has)
}

// Intersect returns a new set with the values present in both sets.
func (m *ThreadSafeSet[K]) Intersect(other *ThreadSafeSet[K]) *ThreadSafeSet[K] {
	result := NewThreadSafeSet[K]()

	for _, value := range other.Values() {
		if m.Has(value) {
			result.data[value] = struct{}{}
		}
	}

	return result
}

// Union returns a new set with the values of both sets.
func (m *ThreadSafeSet[K]) Union(other *ThreadSafeSet[K]) *ThreadSafeSet[K] {
	result := m.Copy()

	for _, value := range other.Values() {
		result.data[value] = struct{}{}
	}

	return result
}

// IsEqual reports whether both sets hold exactly the same values.
func (m *ThreadSafeSet[K]) IsEqual(other *ThreadSafeSet[K]) bool {
	return m.Length() == other.Length() && m.IsSuperset(other)
}

// MarshalJSON encodes the set as a JSON array.
func (m *ThreadSafeSet[K]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(m.Values())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal set: %w", err)
	}

	return data, nil
}

// String returns a JSON representation of the set.
func (m *ThreadSafeSet[K]) String() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return "<error>"
	}

	return string(data)
}

// lazyInit lets the zero ThreadSafeSet accept writes. Callers hold no lock.
func (m *ThreadSafeSet[K]) lazyInit() {
	m.once.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.data == nil {
			m.data = make(map[K]struct{})
		}
	})
}
