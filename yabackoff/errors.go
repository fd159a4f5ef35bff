package yabackoff

import "errors"

var ErrUnknownKind = errors.New("unknown backoff kind")
