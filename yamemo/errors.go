package yamemo

import "errors"

var ErrComputationPanicked = errors.New("computation panicked")
