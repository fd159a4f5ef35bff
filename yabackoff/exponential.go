package yabackoff

import (
	"context"
	"iter"
	"math"
	"time"
)

// Exponential multiplies the delay by Multiplier after every attempt: element i
// is Initial * Multiplier^i. When MaxDelay is positive the delay is clamped to
// it, and once clamped it stays clamped.
//
// Example:
//
//	backoff := yabackoff.Exponential{Initial: time.Second, Multiplier: 2, MaxDelay: 3 * time.Second}.Backoff()
//	fmt.Println(backoff.Next()) // 1s
//	fmt.Println(backoff.Next()) // 2s
//	fmt.Println(backoff.Next()) // 3s (capped)
//	fmt.Println(backoff.Next()) // 3s (stays capped)
//
// The zero value of Exponential is usable: zero Initial and Multiplier are
// replaced by the package defaults, and a zero MaxDelay means "no cap".
type Exponential struct {
	Initial    time.Duration
	Multiplier float64
	MaxDelay   time.Duration
}

func (e Exponential) Backoff() Backoff {
	return &exponentialBackoff{
		initialInterval: e.Initial,
		multiplier:      e.Multiplier,
		maxInterval:     e.MaxDelay,
	}
}

func (e Exponential) Sequence() iter.Seq[time.Duration] {
	return sequence(e.Backoff)
}

func (Exponential) Kind() Kind {
	return KindExponential
}

// NewExponential creates an exponential iterator directly. Any zero argument is
// replaced by the corresponding package default, including maxInterval.
//
// Example:
//
//	backoff := yabackoff.NewExponential(0, 0, 0) // 500ms, 750ms, ... capped at 60s
func NewExponential(
	initialInterval time.Duration,
	multiplier float64,
	maxInterval time.Duration,
) Backoff {
	if maxInterval == 0 {
		maxInterval = DefaultMaxInterval
	}

	return &exponentialBackoff{
		initialInterval: initialInterval,
		multiplier:      multiplier,
		maxInterval:     maxInterval,
	}
}

type exponentialBackoff struct {
	initialInterval time.Duration
	multiplier      float64
	maxInterval     time.Duration
	currentInterval time.Duration
	started         bool
}

// Next returns the next delay and advances the internal state.
func (e *exponentialBackoff) Next() time.Duration {
	e.safety()

	if !e.started {
		e.started = true
		e.currentInterval = e.clamp(float64(e.initialInterval))

		return e.currentInterval
	}

	e.incrementCurrentInterval()

	return e.currentInterval
}

// Current never mutates state.
func (e *exponentialBackoff) Current() time.Duration {
	if !e.started {
		if e.initialInterval == 0 {
			return e.clamp(float64(DefaultInitialInterval))
		}

		return e.clamp(float64(e.initialInterval))
	}

	return e.currentInterval
}

func (e *exponentialBackoff) Wait() {
	time.Sleep(e.Next())
}

func (e *exponentialBackoff) WaitContext(ctx context.Context) error {
	return sleep(ctx, e.Next())
}

func (e *exponentialBackoff) Reset() {
	e.started = false
	e.currentInterval = 0
}

// incrementCurrentInterval multiplies currentInterval by multiplier, clamping
// at maxInterval.
func (e *exponentialBackoff) incrementCurrentInterval() {
	if e.maxInterval > 0 && e.currentInterval >= e.maxInterval {
		e.currentInterval = e.maxInterval

		return
	}

	e.currentInterval = e.clamp(float64(e.currentInterval) * e.multiplier)
}

func (e *exponentialBackoff) clamp(interval float64) time.Duration {
	delay := time.Duration(math.MaxInt64)

	if interval < float64(math.MaxInt64) {
		delay = time.Duration(interval)
	}

	if e.maxInterval > 0 && delay > e.maxInterval {
		return e.maxInterval
	}

	return delay
}

// safety lazily substitutes defaults the first time the iterator is used, so a
// zero value Exponential is fully functional.
func (e *exponentialBackoff) safety() {
	if e.initialInterval == 0 {
		e.initialInterval = DefaultInitialInterval
	}

	if e.multiplier == 0 {
		e.multiplier = DefaultMultiplier
	}
}
