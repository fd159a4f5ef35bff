// Package yamemo holds the single-flight caches tasks delegate to: a Memoizer
// that keeps its first settled result until Reset, and a Temporal that keeps
// it for a fixed duration.
//
// Both coalesce concurrent callers: while a computation is in flight, every
// other caller waits for it instead of starting a duplicate.
package yamemo

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/singleflight"
)

const flightKey = "yamemo"

// Func is a computation whose settled result may be cached.
type Func[T any] func(ctx context.Context) (T, error)

// Memoizer runs a computation at most once and hands the settled result,
// value or error, to every caller until Reset.
//
// The zero value is ready to use.
//
// Example:
//
//	var memo yamemo.Memoizer[*Config]
//
//	cfg, err := memo.Run(ctx, loadConfig) // runs loadConfig
//	cfg, err = memo.Run(ctx, loadConfig)  // cached
//	memo.Reset()
//	cfg, err = memo.Run(ctx, loadConfig)  // runs loadConfig again
type Memoizer[T any] struct {
	group singleflight.Group

	mu         sync.RWMutex
	done       bool
	value      T
	err        error
	generation uint64
}

// Run returns the cached result, or runs fn when nothing is cached yet.
//
// fn sees the values of ctx but not its cancellation. A caller whose ctx ends
// stops waiting and gets ctx.Err(); the computation still completes for the
// other callers and is cached. Cancellation errors are never cached.
func (m *Memoizer[T]) Run(ctx context.Context, fn Func[T]) (T, error) {
	if value, err, ok := m.cached(); ok {
		return value, err
	}

	detached := context.WithoutCancel(ctx)

	flight := m.group.DoChan(flightKey, func() (any, error) {
		m.mu.RLock()
		value, err, done, generation := m.value, m.err, m.done, m.generation
		m.mu.RUnlock()

		if done {
			return outcome[T]{value: value, err: err}, nil
		}

		value, err = call(detached, fn)

		if !interrupted(err) {
			m.mu.Lock()
			if m.generation == generation {
				m.done = true
				m.value = value
				m.err = err
			}
			m.mu.Unlock()
		}

		return outcome[T]{value: value, err: err}, nil
	})

	return await[T](ctx, flight)
}

// Done reports whether a settled result is cached.
func (m *Memoizer[T]) Done() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.done
}

// Reset drops the cached result. A computation already in flight still
// completes for its waiters, but its result is not cached.
func (m *Memoizer[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero T

	m.done = false
	m.value = zero
	m.err = nil
	m.generation++
	m.group.Forget(flightKey)
}

func (m *Memoizer[T]) cached() (T, error, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.value, m.err, m.done
}

type outcome[T any] struct {
	value T
	err   error
}

// await returns the result of flight, or ctx.Err() if ctx ends first.
func await[T any](ctx context.Context, flight <-chan singleflight.Result) (T, error) {
	select {
	case res := <-flight:
		settled := res.Val.(outcome[T])

		return settled.value, settled.err
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}

// interrupted reports whether err is a cancellation or a deadline.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// call runs fn, turning a panic into an error so that it is cached like any
// other failure instead of crashing every waiter.
func call[T any](ctx context.Context, fn Func[T]) (value T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &PanicError{
				Value:      recovered,
				StackTrace: string(debug.Stack()),
			}
		}
	}()

	return fn(ctx)
}

// PanicError carries a recovered panic and the stack it was raised on.
type PanicError struct {
	Value      any
	StackTrace string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrComputationPanicked, e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrComputationPanicked
}
