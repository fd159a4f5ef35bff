package yamemo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yacache"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

const (
	// DefaultTTL is used when NewTemporal receives a non-positive ttl.
	DefaultTTL = 5 * time.Minute

	// DefaultStoreTimeout bounds store calls that have no caller context.
	DefaultStoreTimeout = 5 * time.Second
)

// Entry is what a Temporal writes to its shared store. SetAt lets every
// reader apply the same expiry.
type Entry[T any] struct {
	Value T
	SetAt time.Time
}

// Temporal is a single-flight cache whose settled result expires ttl after it
// was set. Expiry is checked against the clock on each Fetch; no timer runs in
// the background.
//
// With a store attached, successes are also written to the store under key so
// that other Temporal instances, possibly in other processes, reuse them.
// Errors stay local.
//
// Example:
//
//	rates := yamemo.NewTemporal[Rates](time.Minute)
//	current, err := rates.Fetch(ctx, fetchRates)
type Temporal[T any] struct {
	ttl   time.Duration
	now   func() time.Time
	store yacache.Store[Entry[T]]
	key   string
	log   yalogger.Logger

	group singleflight.Group

	mu         sync.RWMutex
	has        bool
	value      T
	err        error
	setAt      time.Time
	generation uint64
}

type TemporalOption[T any] func(*Temporal[T])

// WithClock replaces time.Now, mainly for tests.
func WithClock[T any](now func() time.Time) TemporalOption[T] {
	return func(t *Temporal[T]) {
		t.now = now
	}
}

// WithStore shares settled successes through store under key.
func WithStore[T any](store yacache.Store[Entry[T]], key string) TemporalOption[T] {
	return func(t *Temporal[T]) {
		t.store = store
		t.key = key
	}
}

func WithLogger[T any](log yalogger.Logger) TemporalOption[T] {
	return func(t *Temporal[T]) {
		t.log = log
	}
}

func NewTemporal[T any](ttl time.Duration, opts ...TemporalOption[T]) *Temporal[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	temporal := &Temporal[T]{
		ttl: ttl,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(temporal)
	}

	temporal.log = yalogger.Safe(temporal.log)

	return temporal
}

// TTL returns how long a settled result is kept.
func (t *Temporal[T]) TTL() time.Duration {
	return t.ttl
}

// Fetch returns the cached result while it is fresh, and otherwise runs fn
// once for all concurrent callers. Cancellation follows Memoizer.Run: fn is
// detached from the caller's cancellation and cancellation errors are never
// cached.
func (t *Temporal[T]) Fetch(ctx context.Context, fn Func[T]) (T, error) {
	if value, err, ok := t.fresh(); ok {
		return value, err
	}

	detached := context.WithoutCancel(ctx)

	flight := t.group.DoChan(flightKey, func() (any, error) {
		value, err, ok, generation := t.lookup()
		if ok {
			return outcome[T]{value: value, err: err}, nil
		}

		if entry, found := t.load(detached); found {
			t.settle(generation, entry.Value, nil, entry.SetAt)

			return outcome[T]{value: entry.Value}, nil
		}

		value, err = call(detached, fn)
		if interrupted(err) {
			return outcome[T]{value: value, err: err}, nil
		}

		setAt := t.now()

		if t.settle(generation, value, err, setAt) && err == nil {
			t.save(detached, Entry[T]{Value: value, SetAt: setAt})
		}

		return outcome[T]{value: value, err: err}, nil
	})

	return await[T](ctx, flight)
}

// Invalidate drops the cached result here and in the shared store, so the
// next Fetch runs its computation.
func (t *Temporal[T]) Invalidate() {
	t.mu.Lock()

	var zero T

	t.has = false
	t.value = zero
	t.err = nil
	t.generation++
	t.group.Forget(flightKey)

	t.mu.Unlock()

	if t.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultStoreTimeout)
	defer cancel()

	if err := t.store.Del(ctx, t.key); err != nil {
		t.log.Warnf("[MEMO] failed to invalidate `%s`: %v", t.key, err)
	}
}

// Fresh reports whether a result is cached and has not expired.
func (t *Temporal[T]) Fresh() bool {
	_, _, ok := t.fresh()

	return ok
}

func (t *Temporal[T]) fresh() (T, error, bool) {
	value, err, ok, _ := t.lookup()

	return value, err, ok
}

// lookup reads the cached result and the generation it belongs to in one
// critical section.
func (t *Temporal[T]) lookup() (T, error, bool, uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.has || !t.alive(t.setAt) {
		var zero T

		return zero, nil, false, t.generation
	}

	return t.value, t.err, true, t.generation
}

func (t *Temporal[T]) alive(setAt time.Time) bool {
	return t.now().Sub(setAt) < t.ttl
}

// settle stores the result unless Invalidate ran since the flight started.
func (t *Temporal[T]) settle(generation uint64, value T, err error, setAt time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.generation != generation {
		return false
	}

	t.has = true
	t.value = value
	t.err = err
	t.setAt = setAt

	return true
}

func (t *Temporal[T]) load(ctx context.Context) (Entry[T], bool) {
	if t.store == nil {
		return Entry[T]{}, false
	}

	entry, found, err := t.store.Get(ctx, t.key)
	if err != nil {
		t.log.Warnf("[MEMO] failed to read `%s` from store: %v", t.key, err)

		return Entry[T]{}, false
	}

	if !found || !t.alive(entry.SetAt) {
		return Entry[T]{}, false
	}

	t.log.Debugf("[MEMO] `%s` served from store", t.key)

	return entry, true
}

func (t *Temporal[T]) save(ctx context.Context, entry Entry[T]) {
	if t.store == nil {
		return
	}

	if err := t.store.Set(ctx, t.key, entry, t.ttl); err != nil {
		t.log.Warnf("[MEMO] failed to write `%s` to store: %v", t.key, err)
	}
}
