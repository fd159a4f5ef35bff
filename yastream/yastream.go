// Package yastream holds small combinators over channels: debouncing,
// throttling, batching and re-chunking text streams.
//
// Every combinator owns its output channel. The output is closed once the
// input is closed and drained, or as soon as ctx is done; in the latter case
// buffered values are dropped.
//
// Example:
//
//	queries := yastream.Debounce(ctx, keystrokes, 300*time.Millisecond)
//	for query := range queries {
//	    search(query)
//	}
package yastream

import (
	"context"
	"time"
)

// send delivers value unless ctx is done first.
func send[T any](ctx context.Context, out chan<- T, value T) bool {
	select {
	case out <- value:
		return true
	case <-ctx.Done():
		return false
	}
}

// Debounce emits a value only after wait has passed without a newer one.
// A value still waiting when in is closed is emitted before out closes.
func Debounce[T any](ctx context.Context, in <-chan T, wait time.Duration) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		var (
			latest  T
			waiting bool
			fire    <-chan time.Time
		)

		timer := time.NewTimer(wait)
		timer.Stop()

		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-in:
				if !ok {
					if waiting {
						send(ctx, out, latest)
					}

					return
				}

				latest, waiting = value, true

				timer.Reset(wait)
				fire = timer.C
			case <-fire:
				fire, waiting = nil, false

				if !send(ctx, out, latest) {
					return
				}
			}
		}
	}()

	return out
}

// Batch groups values into slices of at most size. A batch is emitted when it
// is full, when maxWait has passed since its first value, or when in is
// closed. A non-positive maxWait disables the time limit and a size below one
// is treated as one.
//
// Example:
//
//	for rows := range yastream.Batch(ctx, events, 100, time.Second) {
//	    insert(rows)
//	}
func Batch[T any](ctx context.Context, in <-chan T, size int, maxWait time.Duration) <-chan []T {
	size = max(size, 1)
	out := make(chan []T)

	go func() {
		defer close(out)

		var (
			buffer   []T
			deadline <-chan time.Time
		)

		timer := time.NewTimer(maxWait)
		timer.Stop()

		defer timer.Stop()

		flush := func() bool {
			batch := buffer
			buffer, deadline = nil, nil

			timer.Stop()

			return send(ctx, out, batch)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-in:
				if !ok {
					if len(buffer) > 0 {
						flush()
					}

					return
				}

				if len(buffer) == 0 && maxWait > 0 {
					timer.Reset(maxWait)
					deadline = timer.C
				}

				buffer = append(buffer, value)

				if len(buffer) >= size && !flush() {
					return
				}
			case <-deadline:
				if !flush() {
					return
				}
			}
		}
	}()

	return out
}
