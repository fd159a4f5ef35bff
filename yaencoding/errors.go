package yaencoding

import "errors"

var (
	ErrEncode = errors.New("encode failed")
	ErrDecode = errors.New("decode failed")
)
