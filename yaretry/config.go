package yaretry

import (
	"net/http"
	"strings"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/config"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// Config is the environment-driven description of a Retry.
type Config struct {
	MaxAttempts uint
	Backoff     yabackoff.Kind
	Initial     time.Duration
	Increment   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
	Schedule    []time.Duration
}

// DefaultConfig is what LoadConfig returns when no variable is set.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     yabackoff.KindExponential,
		Initial:     yabackoff.DefaultInitialInterval,
		Multiplier:  yabackoff.DefaultMultiplier,
		MaxDelay:    yabackoff.DefaultMaxInterval,
	}
}

// LoadConfig reads <PREFIX>_MAX_ATTEMPTS, <PREFIX>_BACKOFF, <PREFIX>_INITIAL,
// <PREFIX>_INCREMENT, <PREFIX>_MULTIPLIER, <PREFIX>_MAX_DELAY and the
// comma-separated <PREFIX>_SCHEDULE. Unset or malformed variables keep their
// DefaultConfig value.
//
// Example:
//
//	// TASKS_RETRY_MAX_ATTEMPTS=5 TASKS_RETRY_BACKOFF=linear TASKS_RETRY_INITIAL=1s
//	cfg := yaretry.LoadConfig("TASKS_RETRY", log)
func LoadConfig(prefix string, log yalogger.Logger) Config {
	prefix = strings.TrimSuffix(strings.ToUpper(prefix), "_")
	defaults := DefaultConfig()

	key := func(name string) string {
		if prefix == "" {
			return name
		}

		return prefix + "_" + name
	}

	return Config{
		MaxAttempts: config.GetEnv(key("MAX_ATTEMPTS"), defaults.MaxAttempts, log),
		Backoff:     config.GetEnv(key("BACKOFF"), defaults.Backoff, log),
		Initial:     config.GetEnv(key("INITIAL"), defaults.Initial, log),
		Increment:   config.GetEnv(key("INCREMENT"), defaults.Increment, log),
		Multiplier:  config.GetEnv(key("MULTIPLIER"), defaults.Multiplier, log),
		MaxDelay:    config.GetEnv(key("MAX_DELAY"), defaults.MaxDelay, log),
		Schedule:    config.GetEnvArray(key("SCHEDULE"), defaults.Schedule, nil, log),
	}
}

// Strategy builds the back-off named by c.Backoff.
func (c Config) Strategy() (yabackoff.Strategy, yaerrors.Error) {
	strategy, err := yabackoff.Parse(string(c.Backoff), yabackoff.Params{
		Initial:    c.Initial,
		Increment:  c.Increment,
		Multiplier: c.Multiplier,
		MaxDelay:   c.MaxDelay,
		Schedule:   c.Schedule,
	})
	if err != nil {
		return nil, err.Wrap("[RETRY] invalid config")
	}

	return strategy, nil
}

// NewFromConfig is New driven by a Config.
func NewFromConfig[T any](cfg Config, opts ...Option) (*Retry[T], yaerrors.Error) {
	if cfg.MaxAttempts == 0 {
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrInvalidMaxAttempts,
			"[RETRY] invalid config",
		)
	}

	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}

	return New[T](cfg.MaxAttempts, strategy, opts...), nil
}
