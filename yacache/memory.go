package yacache

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
	"weak"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// Memory is a threadsafe, TTL-aware map-backed store suitable for
// single-process applications and unit tests.
//
// Example:
//
//	store := yacache.NewMemory[string](30 * time.Second)
//	defer store.Close()
//
//	_ = store.Set(ctx, "k", "v", time.Hour)
type Memory[V any] struct {
	inner  map[string]memoryItem[V]
	mutex  sync.RWMutex
	done   chan struct{}
	once   sync.Once
	closed bool
}

type memoryItem[V any] struct {
	value     V
	expiresAt time.Time
	endless   bool
}

func (i memoryItem[V]) isExpired(now time.Time) bool {
	return !i.endless && !now.Before(i.expiresAt)
}

// NewMemory builds an empty store and starts the background sweeper, which
// removes expired entries every tickToClean. The sweeper only holds a weak
// reference, so a store that is dropped without Close is still collected.
func NewMemory[V any](tickToClean time.Duration) *Memory[V] {
	if tickToClean <= 0 {
		tickToClean = DefaultSweepInterval
	}

	memory := &Memory[V]{
		inner: make(map[string]memoryItem[V]),
		done:  make(chan struct{}),
	}

	go sweep(weak.Make(memory), tickToClean, memory.done)

	return memory
}

func sweep[V any](
	pointer weak.Pointer[Memory[V]],
	tickToClean time.Duration,
	done <-chan struct{},
) {
	ticker := time.NewTicker(tickToClean)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			memory := pointer.Value()
			if memory == nil {
				return
			}

			memory.removeExpired(time.Now())
		case <-done:
			return
		}
	}
}

func (m *Memory[V]) removeExpired(now time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for key, item := range m.inner {
		if item.isExpired(now) {
			delete(m.inner, key)
		}
	}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, yaerrors.Error) {
	var zero V

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.closed {
		return zero, false, m.closedError("GET", key)
	}

	item, ok := m.inner[key]
	if !ok || item.isExpired(time.Now()) {
		return zero, false, nil
	}

	return item.value, true, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) yaerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return m.closedError("SET", key)
	}

	m.inner[key] = memoryItem[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		endless:   ttl <= 0,
	}

	return nil
}

func (m *Memory[V]) Del(_ context.Context, key string) yaerrors.Error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return m.closedError("DEL", key)
	}

	delete(m.inner, key)

	return nil
}

// Len counts stored entries, including expired ones the sweeper has not
// reached yet.
func (m *Memory[V]) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.inner)
}

// Ping always succeeds for the in-memory backend.
func (m *Memory[V]) Ping(_ context.Context) yaerrors.Error {
	return nil
}

// Close stops the sweeper and drops every entry. Calling it twice is harmless.
func (m *Memory[V]) Close() yaerrors.Error {
	m.once.Do(func() {
		m.mutex.Lock()
		m.closed = true
		clear(m.inner)
		m.mutex.Unlock()

		close(m.done)
	})

	return nil
}

func (m *Memory[V]) closedError(op string, key string) yaerrors.Error {
	return yaerrors.FromError(
		http.StatusInternalServerError,
		ErrStoreClosed,
		fmt.Sprintf("[MEMORY] failed `%s` by `%s`", op, key),
	)
}
