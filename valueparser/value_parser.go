// Package valueparser converts raw strings (environment variables, flags) into
// typed values. It backs the config package.
package valueparser

import (
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// ParseValue converts value to T. Custom unmarshalers win over the builtin
// conversions, and time.Duration accepts both "1.5s" and a plain nanosecond count.
//
// Example usage:
//
//	attempts, err := valueparser.ParseValue[uint]("5")
//	delay, err := valueparser.ParseValue[time.Duration]("250ms")
func ParseValue[T ParsableType](value string) (T, yaerrors.Error) {
	var zero T

	if unmarshaled, err := TryUnmarshal[T](value); err == nil {
		return unmarshaled, nil
	}

	valueType := reflect.TypeOf(zero)

	if valueType == durationType {
		if duration, err := time.ParseDuration(value); err == nil {
			return convert[T](duration, valueType)
		}
	}

	switch valueType.Kind() {
	case reflect.String:
		return convert[T](value, valueType)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if intValue, err := strconv.ParseInt(value, 10, valueType.Bits()); err == nil {
			return convert[T](intValue, valueType)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if uintValue, err := strconv.ParseUint(value, 10, valueType.Bits()); err == nil {
			return convert[T](uintValue, valueType)
		}

	case reflect.Float32, reflect.Float64:
		if floatValue, err := strconv.ParseFloat(value, valueType.Bits()); err == nil {
			return convert[T](floatValue, valueType)
		}

	case reflect.Bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return convert[T](boolValue, valueType)
		}

	default:
		return zero, yaerrors.FromError(
			http.StatusInternalServerError,
			ErrInvalidValue,
			"parse value: unsupported type "+valueType.String(),
		)
	}

	return zero, yaerrors.FromError(
		http.StatusInternalServerError,
		ErrUnparsableValue,
		"parse value: failed to parse `"+value+"` as "+valueType.String(),
	)
}

func convert[T ParsableType](raw any, target reflect.Type) (T, yaerrors.Error) {
	if val, ok := reflect.ValueOf(raw).Convert(target).Interface().(T); ok {
		return val, nil
	}

	var zero T

	return zero, yaerrors.FromError(
		http.StatusInternalServerError,
		ErrInvalidValue,
		"parse value: value is not convertible to "+target.String(),
	)
}
