package yabackoff

import (
	"context"
	"iter"
	"slices"
	"time"
)

// Schedule replays a fixed list of delays and then keeps repeating the last
// one. An empty Schedule never waits.
//
// Example:
//
//	backoff := yabackoff.Schedule{Delays: []time.Duration{time.Second, 5 * time.Second}}.Backoff()
//	backoff.Next() // 1s
//	backoff.Next() // 5s
//	backoff.Next() // 5s
type Schedule struct {
	Delays []time.Duration
}

func (s Schedule) Backoff() Backoff {
	return &scheduleBackoff{delays: slices.Clone(s.Delays)}
}

func (s Schedule) Sequence() iter.Seq[time.Duration] {
	return sequence(s.Backoff)
}

func (Schedule) Kind() Kind {
	return KindSchedule
}

type scheduleBackoff struct {
	delays []time.Duration
	step   int
}

func (b *scheduleBackoff) at(step int) time.Duration {
	if len(b.delays) == 0 {
		return 0
	}

	return b.delays[min(step, len(b.delays)-1)]
}

func (b *scheduleBackoff) Next() time.Duration {
	delay := b.at(b.step)

	b.step++

	return delay
}

func (b *scheduleBackoff) Current() time.Duration {
	return b.at(max(b.step-1, 0))
}

func (b *scheduleBackoff) Wait() {
	time.Sleep(b.Next())
}

func (b *scheduleBackoff) WaitContext(ctx context.Context) error {
	return sleep(ctx, b.Next())
}

func (b *scheduleBackoff) Reset() {
	b.step = 0
}
