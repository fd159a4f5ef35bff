package yaretry

import (
	"errors"
	"fmt"
)

var (
	ErrConcurrentUse      = errors.New("retry is already in progress")
	ErrRetriesExhausted   = errors.New("retries exhausted")
	ErrBackoffExhausted   = errors.New("backoff sequence ended")
	ErrTaskPanicked       = errors.New("task panicked")
	ErrRetryCanceled      = errors.New("retry canceled while waiting")
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// ExhaustedError reports that Call gave up. Aborted is true when the OnRetry
// hook declined another attempt rather than the attempt budget running out.
//
// Call returns it inside a yaerrors.Error; get it back with errors.As:
//
//	var exhausted *yaretry.ExhaustedError
//	if errors.As(err, &exhausted) {
//	    log.Warnf("gave up after %d attempts: %v", exhausted.Attempts, exhausted.LastError)
//	}
type ExhaustedError struct {
	LastError  error
	Attempts   int
	StackTrace string
	Aborted    bool
}

func (e *ExhaustedError) Error() string {
	if e.Aborted {
		return fmt.Sprintf("retry aborted after %d attempts: %v", e.Attempts, e.LastError)
	}

	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.LastError)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastError
}

// Is makes errors.Is(err, ErrRetriesExhausted) hold for every ExhaustedError.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}
