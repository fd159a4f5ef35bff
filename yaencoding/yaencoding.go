// Package yaencoding is the MessagePack codec used wherever typed values leave
// the process, currently the Redis backend of yacache. Every failure comes back
// as a yaerrors.Error so callers can keep propagating one error type.
//
// Example usage:
//
//	type Entry struct {
//	    ID   int
//	    Name string
//	}
//
//	raw, err := yaencoding.EncodeMessagePack(Entry{ID: 1, Name: "Alice"})
//	if err != nil {
//	    return err
//	}
//
//	entry, err := yaencoding.DecodeMessagePack[Entry](raw)
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(entry.Name) // Output: Alice
package yaencoding

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// EncodeMessagePack serializes value using the MessagePack format.
func EncodeMessagePack(value any) ([]byte, yaerrors.Error) {
	bytes, err := msgpack.Marshal(value)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrEncode),
			fmt.Sprintf("[ENCODING] failed to marshal `%T` using message pack format", value),
		)
	}

	return bytes, nil
}

// DecodeMessagePack decodes MessagePack data into a value of type T.
//
// Example:
//
//	val, err := yaencoding.DecodeMessagePack[User](raw)
func DecodeMessagePack[T any](bytes []byte) (T, yaerrors.Error) {
	var res T

	if err := msgpack.Unmarshal(bytes, &res); err != nil {
		return res, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrDecode),
			fmt.Sprintf("[ENCODING] failed to unmarshal message pack into `%T`", res),
		)
	}

	return res, nil
}
