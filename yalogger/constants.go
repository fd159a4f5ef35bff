package yalogger

// Level mirrors the logrus level ordering so it converts without a lookup table.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// BaseLoggerType selects the backend behind NewBaseLogger.
type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

// Field keys attached by the With* helpers and by the packages of this module.
const (
	KeyRequestID = "request_id"
	KeyComponent = "component"
	KeyTaskKey   = "task_key"
	KeyAttempt   = "attempt"
	KeyState     = "state"
)

const defaultTimestampFormat = "2006-01-02 15:04:05"
