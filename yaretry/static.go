package yaretry

import (
	"context"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// Run calls task through a throwaway Retry, so concurrent Run calls never
// share state.
//
// Example:
//
//	body, err := yaretry.Run(ctx, 3, yabackoff.Constant{Delay: time.Second}, fetch)
func Run[T any](
	ctx context.Context,
	maxAttempts uint,
	strategy yabackoff.Strategy,
	task Func[T],
	opts ...Option,
) (T, yaerrors.Error) {
	return New[T](maxAttempts, strategy, opts...).Call(ctx, task)
}

func WithConstantBackoff[T any](
	ctx context.Context,
	maxAttempts uint,
	delay time.Duration,
	task Func[T],
	opts ...Option,
) (T, yaerrors.Error) {
	return Run(ctx, maxAttempts, yabackoff.Constant{Delay: delay}, task, opts...)
}

func WithLinearBackoff[T any](
	ctx context.Context,
	maxAttempts uint,
	initial time.Duration,
	increment time.Duration,
	task Func[T],
	opts ...Option,
) (T, yaerrors.Error) {
	return Run(ctx, maxAttempts, yabackoff.Linear{Initial: initial, Increment: increment}, task, opts...)
}

// WithExponentialBackoff retries with delays initial*multiplier^i, capped at
// maxDelay when it is positive.
func WithExponentialBackoff[T any](
	ctx context.Context,
	maxAttempts uint,
	initial time.Duration,
	multiplier float64,
	maxDelay time.Duration,
	task Func[T],
	opts ...Option,
) (T, yaerrors.Error) {
	return Run(
		ctx,
		maxAttempts,
		yabackoff.Exponential{Initial: initial, Multiplier: multiplier, MaxDelay: maxDelay},
		task,
		opts...,
	)
}
