package yabackoff

import (
	"context"
	"iter"
	"time"
)

// Constant waits the same Delay before every attempt.
type Constant struct {
	Delay time.Duration
}

func (c Constant) Backoff() Backoff {
	return &linearBackoff{initial: c.Delay}
}

func (c Constant) Sequence() iter.Seq[time.Duration] {
	return sequence(c.Backoff)
}

func (Constant) Kind() Kind {
	return KindConstant
}

// Linear grows the delay by Increment each attempt: element i is
// Initial + i*Increment.
//
// Example:
//
//	backoff := yabackoff.Linear{Initial: time.Second, Increment: 2 * time.Second}.Backoff()
//	backoff.Next() // 1s
//	backoff.Next() // 3s
//	backoff.Next() // 5s
type Linear struct {
	Initial   time.Duration
	Increment time.Duration
}

func (l Linear) Backoff() Backoff {
	return &linearBackoff{initial: l.Initial, increment: l.Increment}
}

func (l Linear) Sequence() iter.Seq[time.Duration] {
	return sequence(l.Backoff)
}

func (Linear) Kind() Kind {
	return KindLinear
}

// linearBackoff serves both Constant (zero increment) and Linear.
type linearBackoff struct {
	initial   time.Duration
	increment time.Duration
	step      int64
}

func (b *linearBackoff) at(step int64) time.Duration {
	return b.initial + time.Duration(step)*b.increment
}

func (b *linearBackoff) Next() time.Duration {
	delay := b.at(b.step)

	b.step++

	return delay
}

func (b *linearBackoff) Current() time.Duration {
	if b.step == 0 {
		return b.initial
	}

	return b.at(b.step - 1)
}

func (b *linearBackoff) Wait() {
	time.Sleep(b.Next())
}

func (b *linearBackoff) WaitContext(ctx context.Context) error {
	return sleep(ctx, b.Next())
}

func (b *linearBackoff) Reset() {
	b.step = 0
}
