package yastream

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

func limiter(every time.Duration) *rate.Limiter {
	if every <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(every), 1)
}

// Throttle forwards at most one value per interval. The first value passes
// immediately; values arriving before the next slot opens are dropped.
func Throttle[T any](ctx context.Context, in <-chan T, every time.Duration) <-chan T {
	out := make(chan T)
	gate := limiter(every)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-in:
				if !ok {
					return
				}

				if gate.Allow() && !send(ctx, out, value) {
					return
				}
			}
		}
	}()

	return out
}

// Pace is Throttle without loss: every value is forwarded, but no faster than
// one per interval.
func Pace[T any](ctx context.Context, in <-chan T, every time.Duration) <-chan T {
	out := make(chan T)
	gate := limiter(every)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case value, ok := <-in:
				if !ok {
					return
				}

				if err := gate.Wait(ctx); err != nil {
					return
				}

				if !send(ctx, out, value) {
					return
				}
			}
		}
	}()

	return out
}
