package yaretry_test

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaretry"
)

var errFlaky = errors.New("flaky")

func quietLogger() yalogger.Logger {
	return yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType: yalogger.Logrus,
		Level:          yalogger.PanicLevel,
		Output:         io.Discard,
	}).NewLogger()
}

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delays = append(s.delays, d)

	return nil
}

func (s *recordingSleeper) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]time.Duration(nil), s.delays...)
}

func newRetry[T any](
	maxAttempts uint,
	strategy yabackoff.Strategy,
	opts ...yaretry.Option,
) (*yaretry.Retry[T], *recordingSleeper) {
	sleeper := &recordingSleeper{}

	opts = append(opts, yaretry.WithSleeper(sleeper.Sleep), yaretry.WithLogger(quietLogger()))

	return yaretry.New[T](maxAttempts, strategy, opts...), sleeper
}

func TestRetry_ExhaustsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	retry, sleeper := newRetry[int](3, yabackoff.Constant{Delay: 2 * time.Second})

	var calls atomic.Int32

	_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
		calls.Add(1)

		return 0, errFlaky
	})

	require.NotNil(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, retry.Attempts())
	assert.Equal(t, 503, err.Code())
	assert.ErrorIs(t, err, yaretry.ErrRetriesExhausted)
	assert.ErrorIs(t, err, errFlaky)

	var exhausted *yaretry.ExhaustedError

	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.False(t, exhausted.Aborted)
	assert.NotEmpty(t, exhausted.StackTrace)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, sleeper.Delays())
	assert.False(t, retry.IsRetrying())
}

func TestRetry_ShortCircuitsOnSuccess(t *testing.T) {
	t.Parallel()

	retry, sleeper := newRetry[string](5, yabackoff.Linear{Initial: time.Second, Increment: 2 * time.Second})

	var calls atomic.Int32

	result, err := retry.Call(context.Background(), func(context.Context) (string, error) {
		if calls.Add(1) <= 2 {
			return "", errFlaky
		}

		return "ok", nil
	})

	require.Nil(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, retry.Attempts())
	assert.Equal(t, []time.Duration{time.Second, 3 * time.Second}, sleeper.Delays())
}

func TestRetry_HugeMaxAttemptsIsClamped(t *testing.T) {
	t.Parallel()

	retry, _ := newRetry[int](math.MaxUint, nil)

	assert.Equal(t, math.MaxInt, retry.MaxAttempts())

	var calls atomic.Int32

	result, err := retry.Call(context.Background(), func(context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errFlaky
		}

		return 5, nil
	})

	require.Nil(t, err)
	assert.Equal(t, 5, result)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetry_RejectsConcurrentUse(t *testing.T) {
	t.Parallel()

	retry, _ := newRetry[int](1, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = retry.Call(context.Background(), func(context.Context) (int, error) {
			close(started)
			<-release

			return 1, nil
		})
	}()

	<-started

	assert.True(t, retry.IsRetrying())

	_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
		t.Error("second call must not run")

		return 0, nil
	})

	require.NotNil(t, err)
	assert.ErrorIs(t, err, yaretry.ErrConcurrentUse)
	assert.Equal(t, 409, err.Code())

	close(release)
	<-done

	assert.False(t, retry.IsRetrying())

	value, err := retry.Call(context.Background(), func(context.Context) (int, error) {
		return 2, nil
	})

	require.Nil(t, err)
	assert.Equal(t, 2, value)
}

func TestRetry_OnRetryHook(t *testing.T) {
	t.Parallel()

	t.Run("[Abort] - hook returning false stops retrying", func(t *testing.T) {
		t.Parallel()

		var seenAttempt int

		retry, sleeper := newRetry[int](5, yabackoff.Constant{Delay: time.Second},
			yaretry.WithOnRetry(func(_ context.Context, err error, attempt int) (bool, error) {
				seenAttempt = attempt

				return false, nil
			}),
		)

		_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
			return 0, errFlaky
		})

		var exhausted *yaretry.ExhaustedError

		require.ErrorAs(t, err, &exhausted)
		assert.True(t, exhausted.Aborted)
		assert.Equal(t, 1, exhausted.Attempts)
		assert.Equal(t, 1, seenAttempt)
		assert.Empty(t, sleeper.Delays())
	})

	t.Run("[Abort] - hook error is joined to the last error", func(t *testing.T) {
		t.Parallel()

		errHook := errors.New("hook failed")

		retry, _ := newRetry[int](5, nil,
			yaretry.WithOnRetry(func(context.Context, error, int) (bool, error) {
				return true, errHook
			}),
		)

		_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
			return 0, errFlaky
		})

		require.NotNil(t, err)
		assert.ErrorIs(t, err, errHook)
		assert.ErrorIs(t, err, errFlaky)
	})

	t.Run("[Continue] - hook returning true keeps retrying", func(t *testing.T) {
		t.Parallel()

		var hookCalls atomic.Int32

		retry, _ := newRetry[int](3, nil,
			yaretry.WithOnRetry(func(context.Context, error, int) (bool, error) {
				hookCalls.Add(1)

				return true, nil
			}),
		)

		_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
			return 0, errFlaky
		})

		require.NotNil(t, err)
		assert.Equal(t, int32(2), hookCalls.Load())
	})
}

func TestRetry_RecoversPanics(t *testing.T) {
	t.Parallel()

	retry, _ := newRetry[int](2, nil)

	_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
		panic("boom")
	})

	var exhausted *yaretry.ExhaustedError

	require.ErrorAs(t, err, &exhausted)
	assert.ErrorIs(t, err, yaretry.ErrTaskPanicked)
	assert.Equal(t, 2, exhausted.Attempts)
	assert.Contains(t, exhausted.StackTrace, "goroutine")
}

func TestRetry_CanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	retry := yaretry.New[int](3, yabackoff.Constant{Delay: time.Hour}, yaretry.WithLogger(quietLogger()))

	_, err := retry.Call(ctx, func(context.Context) (int, error) {
		return 0, errFlaky
	})

	require.NotNil(t, err)
	assert.ErrorIs(t, err, yaretry.ErrRetryCanceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, retry.Attempts())
}

func TestRetry_AttemptsResetBetweenCalls(t *testing.T) {
	t.Parallel()

	retry, _ := newRetry[int](3, nil)

	_, _ = retry.Call(context.Background(), func(context.Context) (int, error) {
		return 0, errFlaky
	})

	require.Equal(t, 3, retry.Attempts())

	_, err := retry.Call(context.Background(), func(context.Context) (int, error) {
		return 1, nil
	})

	require.Nil(t, err)
	assert.Equal(t, 1, retry.Attempts())
}

func TestStaticHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	failTwice := func() yaretry.Func[int] {
		var calls atomic.Int32

		return func(context.Context) (int, error) {
			if calls.Add(1) <= 2 {
				return 0, errFlaky
			}

			return int(calls.Load()), nil
		}
	}

	quiet := yaretry.WithLogger(quietLogger())

	t.Run("[Constant] - succeeds within budget", func(t *testing.T) {
		t.Parallel()

		value, err := yaretry.WithConstantBackoff(ctx, 3, 0, failTwice(), quiet)

		require.Nil(t, err)
		assert.Equal(t, 3, value)
	})

	t.Run("[Linear] - succeeds within budget", func(t *testing.T) {
		t.Parallel()

		value, err := yaretry.WithLinearBackoff(ctx, 3, 0, time.Millisecond, failTwice(), quiet)

		require.Nil(t, err)
		assert.Equal(t, 3, value)
	})

	t.Run("[Exponential] - fails when budget is too small", func(t *testing.T) {
		t.Parallel()

		_, err := yaretry.WithExponentialBackoff(ctx, 2, time.Millisecond, 2, time.Millisecond, failTwice(), quiet)

		require.NotNil(t, err)
		assert.ErrorIs(t, err, yaretry.ErrRetriesExhausted)
	})

	t.Run("[Run] - independent calls run concurrently", func(t *testing.T) {
		t.Parallel()

		var wg sync.WaitGroup

		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				value, err := yaretry.Run(ctx, 3, yabackoff.Constant{}, failTwice(), quiet)

				assert.Nil(t, err)
				assert.Equal(t, 3, value)
			}()
		}

		wg.Wait()
	})
}
