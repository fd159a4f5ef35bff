// Package yaretry drives one fallible computation through a bounded number of
// attempts, waiting between attempts according to a yabackoff.Strategy.
//
// A Retry is reusable but not reentrant: while Call is running, a second Call
// on the same instance fails immediately with ErrConcurrentUse. Use the
// package-level helpers, or one Retry per goroutine, for concurrent work.
//
// Example:
//
//	retry := yaretry.New[*Report](5, yabackoff.Exponential{Initial: time.Second, Multiplier: 2})
//
//	report, err := retry.Call(ctx, func(ctx context.Context) (*Report, error) {
//	    return client.FetchReport(ctx)
//	})
//	if err != nil {
//	    var exhausted *yaretry.ExhaustedError
//	    if errors.As(err, &exhausted) {
//	        log.Errorf("report unavailable after %d attempts", exhausted.Attempts)
//	    }
//	}
package yaretry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"net/http"
	"runtime/debug"
	"sync/atomic"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// DefaultMaxAttempts is used when New receives zero attempts.
const DefaultMaxAttempts = 3

// Func is one attempt of the retried computation.
type Func[T any] func(ctx context.Context) (T, error)

type Retry[T any] struct {
	maxAttempts int
	strategy    yabackoff.Strategy
	onRetry     OnRetryFunc
	sleeper     Sleeper
	log         yalogger.Logger

	attempts   atomic.Int64
	isRetrying atomic.Bool
}

// New builds a Retry allowing maxAttempts invocations in total. A nil strategy
// waits nothing between attempts.
func New[T any](maxAttempts uint, strategy yabackoff.Strategy, opts ...Option) *Retry[T] {
	o := options{
		sleeper: yabackoff.Sleep,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if maxAttempts == 0 {
		maxAttempts = DefaultMaxAttempts
	}

	if strategy == nil {
		strategy = yabackoff.Constant{}
	}

	if o.sleeper == nil {
		o.sleeper = yabackoff.Sleep
	}

	return &Retry[T]{
		maxAttempts: int(min(maxAttempts, uint(math.MaxInt))),
		strategy:    strategy,
		onRetry:     o.onRetry,
		sleeper:     o.sleeper,
		log:         yalogger.Safe(o.log),
	}
}

// Attempts reports how many times the task ran during the current or most
// recent Call.
func (r *Retry[T]) Attempts() int {
	return int(r.attempts.Load())
}

// IsRetrying reports whether a Call is in progress.
func (r *Retry[T]) IsRetrying() bool {
	return r.isRetrying.Load()
}

// MaxAttempts returns the attempt budget of one Call.
func (r *Retry[T]) MaxAttempts() int {
	return r.maxAttempts
}

// Call runs task until it succeeds, the attempt budget is spent, or the
// OnRetry hook aborts. Failures are reported as an *ExhaustedError wrapped in
// a yaerrors.Error with status 503.
func (r *Retry[T]) Call(ctx context.Context, task Func[T]) (T, yaerrors.Error) {
	var zero T

	if !r.isRetrying.CompareAndSwap(false, true) {
		return zero, yaerrors.FromError(
			http.StatusConflict,
			ErrConcurrentUse,
			"[RETRY] call rejected",
		)
	}
	defer r.isRetrying.Store(false)

	r.attempts.Store(0)

	next, stop := iter.Pull(r.strategy.Sequence())
	defer stop()

	for {
		attempt := int(r.attempts.Add(1))

		r.log.Debugf("[RETRY] attempt %d of %d", attempt, r.maxAttempts)

		result, stackTrace, err := r.invoke(ctx, task)
		if err == nil {
			return result, nil
		}

		if attempt >= r.maxAttempts {
			return zero, r.giveUp(err, attempt, stackTrace, false)
		}

		if r.onRetry != nil {
			proceed, hookErr := r.onRetry(ctx, err, attempt)
			if hookErr != nil {
				return zero, r.giveUp(errors.Join(err, hookErr), attempt, stackTrace, true)
			}

			if !proceed {
				return zero, r.giveUp(err, attempt, stackTrace, true)
			}
		}

		delay, ok := next()
		if !ok {
			return zero, r.giveUp(errors.Join(err, ErrBackoffExhausted), attempt, stackTrace, false)
		}

		r.log.Warnf("[RETRY] attempt %d failed, retrying in %s: %v", attempt, delay, err)

		if sleepErr := r.sleeper(ctx, delay); sleepErr != nil {
			return zero, yaerrors.FromError(
				http.StatusRequestTimeout,
				errors.Join(ErrRetryCanceled, sleepErr, err),
				fmt.Sprintf("[RETRY] stopped after %d attempts", attempt),
			)
		}
	}
}

// invoke runs one attempt, turning a panic into an error carrying the panic's
// stack trace.
func (r *Retry[T]) invoke(ctx context.Context, task Func[T]) (result T, stackTrace string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			stackTrace = string(debug.Stack())
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, recovered)
		}
	}()

	result, err = task(ctx)
	if err != nil {
		stackTrace = string(debug.Stack())
	}

	return result, stackTrace, err
}

func (r *Retry[T]) giveUp(err error, attempts int, stackTrace string, aborted bool) yaerrors.Error {
	exhausted := &ExhaustedError{
		LastError:  err,
		Attempts:   attempts,
		StackTrace: stackTrace,
		Aborted:    aborted,
	}

	r.log.Errorf("[RETRY] %v", exhausted)

	return yaerrors.FromError(
		http.StatusServiceUnavailable,
		exhausted,
		"[RETRY] giving up",
	)
}
