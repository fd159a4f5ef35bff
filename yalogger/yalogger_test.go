package yalogger_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

func newBufferedLogger(level yalogger.Level) (yalogger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	log := yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType:   yalogger.Logrus,
		Level:            level,
		DisableTimestamp: true,
		Output:           buf,
	}).NewLogger()

	return log, buf
}

func TestLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	log, buf := newBufferedLogger(yalogger.WarnLevel)

	log.Debug("hidden")
	log.Warn("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	t.Parallel()

	log, buf := newBufferedLogger(yalogger.DebugLevel)

	child := log.WithField(yalogger.KeyTaskKey, "avatar")

	assert.Nil(t, log.GetField(yalogger.KeyTaskKey))
	assert.Equal(t, "avatar", child.GetField(yalogger.KeyTaskKey))

	child.Info("loaded")

	assert.Contains(t, buf.String(), "task_key=avatar")
}

func TestLogger_RequestIDs(t *testing.T) {
	t.Parallel()

	log, _ := newBufferedLogger(yalogger.InfoLevel)

	id := uuid.New()

	assert.Equal(t, id, log.WithRequestUUID(id).GetField(yalogger.KeyRequestID))
	assert.Equal(t, "req-1", log.WithRequestStringID("req-1").GetField(yalogger.KeyRequestID))
	assert.NotNil(t, log.WithRandomRequestID().GetField(yalogger.KeyRequestID))
}

func TestLogger_GetFieldsReturnsCopy(t *testing.T) {
	t.Parallel()

	log, _ := newBufferedLogger(yalogger.InfoLevel)
	log = log.WithFields(map[string]any{yalogger.KeyAttempt: 1, yalogger.KeyState: "running"})

	fields := log.GetFields()
	fields[yalogger.KeyAttempt] = 2

	assert.Equal(t, 1, log.GetField(yalogger.KeyAttempt))
}

func TestLevel_Unmarshal(t *testing.T) {
	t.Parallel()

	var level yalogger.Level

	require.NoError(t, level.UnmarshalText([]byte("WARNING")))
	assert.Equal(t, yalogger.WarnLevel, level)
	assert.Equal(t, "Warn", level.String())

	assert.ErrorIs(t, level.Unmarshal("loud"), yalogger.ErrInvalidLogLevel)
}

func TestSafe_NilFallsBack(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, yalogger.Safe(nil))
}
