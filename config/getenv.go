// Package config reads typed settings from environment variables. Every lookup
// takes a fallback so that a library user who never sets a variable still gets
// the documented defaults.
package config

import (
	"net/http"
	"os"

	"github.com/YaCodeDev/GoYaCodeDevAsync/valueparser"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// GetEnv retrieves the value of an environment variable, parses it to the specified type T,
// and returns it. If the variable is unset or fails to parse, fallback is returned and
// a warning is logged.
//
// Example usage:
//
//	attempts := config.GetEnv("TASKS_RETRY_MAX_ATTEMPTS", uint(3), log)
func GetEnv[T valueparser.ParsableType](
	key string,
	fallback T,
	log yalogger.Logger,
) T {
	log = yalogger.Safe(log)

	value, exists := os.LookupEnv(key)
	if !exists {
		log.Debugf("Environment variable %s is not set, using default value %v", key, fallback)

		return fallback
	}

	parsed, err := valueparser.ParseValue[T](value)
	if err != nil {
		log.Warnf(
			"Environment variable %s failed to parse, using default value %v: %v",
			key,
			fallback,
			err,
		)

		return fallback
	}

	return parsed
}

// GetRequiredEnv is GetEnv without a fallback: a missing or malformed variable
// is reported as an error instead of terminating the process.
func GetRequiredEnv[T valueparser.ParsableType](key string) (T, yaerrors.Error) {
	var zero T

	value, exists := os.LookupEnv(key)
	if !exists {
		return zero, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrValueIsRequired,
			"[CONFIG] environment variable "+key+" is required",
		)
	}

	parsed, err := valueparser.ParseValue[T](value)
	if err != nil {
		return zero, err.Wrap("[CONFIG] failed to parse " + key)
	}

	return parsed, nil
}

// GetEnvArray retrieves a separator-delimited environment variable as []T.
// A nil separator means valueparser.DefaultEntrySeparator.
func GetEnvArray[T valueparser.ParsableType](
	key string,
	fallback []T,
	separator *string,
	log yalogger.Logger,
) []T {
	log = yalogger.Safe(log)

	if value, exists := os.LookupEnv(key); exists {
		parsed, err := valueparser.ParseArray[T](value, separator)
		if err == nil {
			return parsed
		}

		log.Errorf("Failed to parse environment variable %s: %v", key, err)
	}

	return fallback
}
