package yaretry_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yabackoff"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaretry"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := yaretry.LoadConfig("YARETRY_UNSET_PREFIX", quietLogger())

	if diff := cmp.Diff(yaretry.DefaultConfig(), cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("JOBS_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("JOBS_RETRY_BACKOFF", "linear")
	t.Setenv("JOBS_RETRY_INITIAL", "1s")
	t.Setenv("JOBS_RETRY_INCREMENT", "2s")
	t.Setenv("JOBS_RETRY_MULTIPLIER", "not-a-number")

	cfg := yaretry.LoadConfig("jobs_retry_", quietLogger())

	assert.Equal(t, uint(5), cfg.MaxAttempts)
	assert.Equal(t, yabackoff.KindLinear, cfg.Backoff)
	assert.Equal(t, time.Second, cfg.Initial)
	assert.Equal(t, 2*time.Second, cfg.Increment)
	assert.InDelta(t, yabackoff.DefaultMultiplier, cfg.Multiplier, 1e-9)

	strategy, err := cfg.Strategy()

	require.Nil(t, err)
	assert.Equal(t, yabackoff.Linear{Initial: time.Second, Increment: 2 * time.Second}, strategy)

	retry, err := yaretry.NewFromConfig[int](cfg)

	require.Nil(t, err)
	assert.Equal(t, 5, retry.MaxAttempts())
}

func TestNewFromConfig_Invalid(t *testing.T) {
	t.Parallel()

	_, err := yaretry.NewFromConfig[int](yaretry.Config{MaxAttempts: 0})

	require.NotNil(t, err)
	assert.ErrorIs(t, err, yaretry.ErrInvalidMaxAttempts)

	_, err = yaretry.NewFromConfig[int](yaretry.Config{MaxAttempts: 1, Backoff: "fibonacci"})

	require.NotNil(t, err)
	assert.ErrorIs(t, err, yabackoff.ErrUnknownKind)
}

func TestLoadConfig_Schedule(t *testing.T) {
	t.Setenv("SYNC_RETRY_BACKOFF", "schedule")
	t.Setenv("SYNC_RETRY_SCHEDULE", "100ms, 1s, 10s")

	cfg := yaretry.LoadConfig("SYNC_RETRY", quietLogger())

	want := []time.Duration{100 * time.Millisecond, time.Second, 10 * time.Second}
	if diff := cmp.Diff(want, cfg.Schedule); diff != "" {
		t.Errorf("schedule mismatch (-want +got):\n%s", diff)
	}

	strategy, err := cfg.Strategy()

	require.Nil(t, err)
	assert.Equal(t, yabackoff.KindSchedule, strategy.Kind())
}
