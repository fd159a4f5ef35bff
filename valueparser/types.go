package valueparser

// ParsableType is a type constraint that allows for any type that can be parsed from a string.
// time.Duration is covered through ~int64 and parsed with time.ParseDuration.
type ParsableType interface {
	~string | ~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~bool
}

// Unmarshalable is implemented by custom types that know how to read themselves
// from a string, e.g. yalogger.Level.
type Unmarshalable interface {
	Unmarshal(data string) error
}

// DefaultEntrySeparator splits array values when no separator is given.
const DefaultEntrySeparator = ","
