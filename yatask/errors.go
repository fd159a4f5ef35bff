package yatask

import "errors"

var (
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrTypeMismatch       = errors.New("task type mismatch")
	ErrMissingComputation = errors.New("missing computation")
	ErrTaskPanicked       = errors.New("task panicked")
)
