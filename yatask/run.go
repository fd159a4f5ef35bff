package yatask

import (
	"context"
	"fmt"
	"runtime/debug"
)

// RunSync calls fn once and returns Success or Failure. A returned error is
// stored without a stack trace; a panic is recovered into a Failure carrying
// the panic's stack.
//
// Example:
//
//	parsed := yatask.RunSync[Config, string, yatask.Tags](func() (Config, error) {
//	    return parseConfig(raw)
//	})
func RunSync[D, L, G any](fn func() (D, error), opts ...Option[D, L, G]) Task[D, L, G] {
	running := NewPending(opts...).ToRunning()

	value, stackTrace, err := invokeSync(fn)
	if err != nil {
		return running.ToFailure(err, stackTrace)
	}

	return running.ToSuccess(value)
}

// Run calls fn once and returns Success or Failure. Failures carry the stack
// trace captured where the error surfaced.
func Run[D, L, G any](ctx context.Context, fn Computation[D], opts ...Option[D, L, G]) Task[D, L, G] {
	return settle[D, L, G](ctx, NewPending(opts...).ToRunning(), fn)
}

// Watch runs fn in a new goroutine and reports its progress: a Running task
// first, then exactly one Success or Failure, after which the channel is
// closed. The channel is buffered, so the goroutine never blocks on a slow
// reader.
//
// Example:
//
//	for task := range yatask.Watch[Report, string, yatask.Tags](ctx, loadReport) {
//	    render(task)
//	}
func Watch[D, L, G any](ctx context.Context, fn Computation[D], opts ...Option[D, L, G]) <-chan Task[D, L, G] {
	updates := make(chan Task[D, L, G], 2)
	running := NewPending(opts...).ToRunning()

	updates <- running

	go func() {
		defer close(updates)

		updates <- settle[D, L, G](ctx, running, fn)
	}()

	return updates
}

// Settle moves the task to Running, runs fn through the attached cache and
// returns the resulting Success or Failure.
func (b base[D, L, G]) Settle(ctx context.Context, fn Computation[D]) Task[D, L, G] {
	running := b.ToRunning()

	value, stackTrace, err := b.rec.cache.execute(ctx, fn)
	if err != nil {
		return running.ToFailure(err, stackTrace)
	}

	return running.ToSuccess(value)
}

func settle[D, L, G any](ctx context.Context, from Task[D, L, G], fn Computation[D]) Task[D, L, G] {
	value, stackTrace, err := invoke(ctx, fn)
	if err != nil {
		return from.ToFailure(err, stackTrace)
	}

	return from.ToSuccess(value)
}

func invokeSync[D any](fn func() (D, error)) (value D, stackTrace string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, recovered)
			stackTrace = string(debug.Stack())
		}
	}()

	value, err = fn()

	return value, "", err
}
