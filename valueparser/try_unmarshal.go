package valueparser

import (
	"encoding"
	"reflect"
)

// TryUnmarshal parses value through encoding.TextUnmarshaler or Unmarshalable
// when *T implements one of them.
func TryUnmarshal[T ParsableType](value string) (T, error) {
	var zero T

	ptr := reflect.New(reflect.TypeOf(zero))

	if unmarshaler, ok := ptr.Interface().(encoding.TextUnmarshaler); ok {
		if err := unmarshaler.UnmarshalText([]byte(value)); err == nil {
			return castElem[T](ptr)
		}
	}

	if unmarshaler, ok := ptr.Interface().(Unmarshalable); ok {
		if err := unmarshaler.Unmarshal(value); err == nil {
			return castElem[T](ptr)
		}
	}

	return zero, ErrUnparsableValue
}

func castElem[T ParsableType](ptr reflect.Value) (T, error) {
	if val, ok := ptr.Elem().Interface().(T); ok {
		return val, nil
	}

	var zero T

	return zero, ErrInvalidValue
}
