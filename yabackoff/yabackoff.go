// Package yabackoff provides simple, self-contained back-off strategies for
// retry loops. A back-off progressively increases the time you wait between
// attempts of an operation that might fail.
//
// A Strategy is an immutable policy; it produces a fresh stateful Backoff (an
// iterator over an infinite sequence of delays) every time one is requested, so
// the same Strategy can drive many independent retry loops.
//
// # Quick start
//
//	strategy := yabackoff.Exponential{Initial: 500 * time.Millisecond, Multiplier: 2, MaxDelay: 30 * time.Second}
//	backoff := strategy.Backoff()
//	for {
//	    if err := doWork(); err == nil {
//	        break // success – stop retrying
//	    }
//	    backoff.Wait() // 500ms, 1s, 2s, ... 30s
//	}
package yabackoff

import (
	"context"
	"iter"
	"time"
)

// Default* constants are applied when the caller provides zero
// values to NewExponential, or when an Exponential is declared
// as a zero value and used without initialisation.
const (
	// DefaultInitialInterval is used when the initial delay is zero.
	DefaultInitialInterval = 500 * time.Millisecond

	// DefaultMultiplier is applied when multiplier == 0.
	DefaultMultiplier = 1.5

	// DefaultMaxInterval caps iterators built by NewExponential when maxInterval == 0.
	DefaultMaxInterval = 60 * time.Second
)

// Kind names a strategy for configuration purposes.
type Kind string

const (
	KindConstant    Kind = "constant"
	KindLinear      Kind = "linear"
	KindExponential Kind = "exponential"
	KindSchedule    Kind = "schedule"
)

// Strategy is a stateless back-off policy.
//
// Example:
//
//	var strategy yabackoff.Strategy = yabackoff.Linear{Initial: time.Second, Increment: 2 * time.Second}
//	for delay := range strategy.Sequence() {
//	    fmt.Println(delay) // 1s, 3s, 5s, ...
//	}
type Strategy interface {
	// Backoff returns a new iterator positioned before the first delay.
	Backoff() Backoff

	// Sequence yields the infinite delay sequence. Each call starts over.
	Sequence() iter.Seq[time.Duration]

	// Kind reports the strategy family.
	Kind() Kind
}

// Backoff is the behaviour shared by all back‑off iterators in this package.
// Implementations are *not* safe for concurrent use – surround them with your
// own synchronisation if you share one instance between goroutines.
//
// Example:
//
//	backoff := yabackoff.Constant{Delay: time.Second}.Backoff()
//	_ = backoff.Next() // 1s
//	backoff.Reset()    // back to the start
type Backoff interface {
	// Next advances the iterator and returns the delay for *this* attempt.
	Next() time.Duration

	// Current returns the delay produced by the most recent call to Next, or
	// the first delay if Next was never called. It never mutates state.
	Current() time.Duration

	// Wait sleeps for Next().
	Wait()

	// WaitContext sleeps for Next() unless ctx is done first, in which case
	// ctx.Err() is returned.
	WaitContext(ctx context.Context) error

	// Reset puts the iterator back to its initial state so that the very next
	// call to Next() will return the first delay again.
	Reset()
}

// sequence adapts any Backoff factory into an iter.Seq.
func sequence(newBackoff func() Backoff) iter.Seq[time.Duration] {
	return func(yield func(time.Duration) bool) {
		backoff := newBackoff()

		for {
			if !yield(backoff.Next()) {
				return
			}
		}
	}
}

// sleep blocks for delay or until ctx is done.
func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sleep is the context-aware suspension used by WaitContext; yaretry uses it
// as its default sleeper.
func Sleep(ctx context.Context, delay time.Duration) error {
	return sleep(ctx, delay)
}
