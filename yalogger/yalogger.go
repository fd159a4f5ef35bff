// Package yalogger is the structured logging facade used across the module.
// Components never talk to logrus directly; they receive a Logger and enrich it
// with fields (task key, attempt number, state) before logging.
//
//	log := yalogger.NewBaseLogger(&yalogger.Config{Level: yalogger.InfoLevel}).NewLogger()
//	log.WithField(yalogger.KeyAttempt, 2).Warn("retrying")
package yalogger

import (
	"io"

	"github.com/google/uuid"
)

// Config defines the configuration options for the logger.
//
// BaseLoggerType: The type of logger to use (e.g., Logrus).
// Level: The minimum log level to output (e.g., Info).
// FullTimestamp: Whether to include the full timestamp in log messages.
// DisableTimestamp: Whether to disable timestamps in log messages.
// TimestampFormat: The format to use for timestamps in log messages.
// Output: Destination of the log lines, stderr when nil.
type Config struct {
	BaseLoggerType   BaseLoggerType
	Level            Level
	FullTimestamp    bool
	DisableTimestamp bool
	TimestampFormat  string
	Output           io.Writer
}

// BaseLogger is an interface for creating new Logger instances.
type BaseLogger interface {
	// NewLogger creates a new Logger instance from the base logger.
	NewLogger() Logger
}

// Logger defines a structured logging interface with support for various log levels,
// formatting, and context-aware logging using key-value fields.
type Logger interface {
	// Info logs a message at the Info level.
	//
	// Example usage:
	//
	//   logger.Info("group completed")
	Info(msg string)

	// Infof logs a formatted message at the Info level.
	Infof(format string, args ...any)

	// Trace logs a message at the Trace level (very low-level debugging).
	Trace(msg string)

	// Tracef logs a formatted message at the Trace level.
	Tracef(format string, args ...any)

	// Error logs a message at the Error level.
	//
	// Example usage:
	//
	//   logger.Error("retries exhausted")
	Error(msg string)

	// Errorf logs a formatted message at the Error level.
	Errorf(format string, args ...any)

	// Warn logs a message at the Warn level.
	Warn(msg string)

	// Warnf logs a formatted message at the Warn level.
	//
	// Example usage:
	//
	//   logger.Warnf("attempt %d failed: %v", attempt, err)
	Warnf(format string, args ...any)

	// Debug logs a message at the Debug level.
	Debug(msg string)

	// Debugf logs a formatted message at the Debug level.
	Debugf(format string, args ...any)

	// Fatal logs a message at the Fatal level and terminates the application.
	Fatal(msg string)

	// Fatalf logs a formatted message at the Fatal level.
	Fatalf(format string, args ...any)

	// WithField returns a logger instance with a single field added to the context.
	//
	// Example usage:
	//
	//   logger.WithField(yalogger.KeyTaskKey, "avatar")
	WithField(key string, value any) Logger

	// WithFields returns a logger instance with multiple fields added to the context.
	WithFields(fields map[string]any) Logger

	// WithRequestStringID returns a logger with a string request ID in the context.
	WithRequestStringID(id string) Logger

	// WithRequestUUID returns a logger with a UUID request ID in the context.
	WithRequestUUID(id uuid.UUID) Logger

	// WithRandomRequestID returns a logger with a freshly generated UUID request ID.
	// Batch operations use it to correlate the lines of one run.
	WithRandomRequestID() Logger

	// GetFields returns the current log context fields as a map.
	GetFields() map[string]any

	// GetField returns the value of a field from the current log context, or nil.
	GetField(key string) any
}

// Safe returns log, or a default logger when log is nil.
func Safe(log Logger) Logger {
	if log == nil {
		return NewBaseLogger(nil).NewLogger()
	}

	return log
}
