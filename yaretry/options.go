package yaretry

import (
	"context"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// OnRetryFunc is consulted after a failed attempt that still has budget left.
// Returning false stops retrying; returning an error stops retrying and joins
// that error to the last task error.
type OnRetryFunc func(ctx context.Context, err error, attempt int) (bool, error)

// Sleeper suspends for d unless ctx is done first.
type Sleeper func(ctx context.Context, d time.Duration) error

type Option func(*options)

type options struct {
	onRetry OnRetryFunc
	log     yalogger.Logger
	sleeper Sleeper
}

// WithOnRetry installs a hook consulted before every re-attempt.
func WithOnRetry(hook OnRetryFunc) Option {
	return func(o *options) {
		o.onRetry = hook
	}
}

func WithLogger(log yalogger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithSleeper replaces the suspension primitive. Tests use it to record delays
// instead of waiting them out.
func WithSleeper(sleeper Sleeper) Option {
	return func(o *options) {
		o.sleeper = sleeper
	}
}
