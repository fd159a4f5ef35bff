// Package yaerrors provides the coded error type shared by every package of the
// module. An Error carries an HTTP-style status code, the original cause, and a
// human readable traceback that grows each time the error is wrapped on its way
// up the call stack.
//
// The cause is always reachable through Unwrap, so sentinel errors declared in
// the errors.go file of each package keep working with errors.Is and errors.As:
//
//	err := retry.Call(ctx, task)
//	if errors.Is(err, yaretry.ErrConcurrentUse) {
//	    // construct a new Retry for this operation
//	}
package yaerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// Error is the error type returned by all fallible operations of the module.
type Error interface {
	error
	Wrap(msg string) Error
	Wrapf(format string, args ...any) Error
	WrapWithLog(msg string, log yalogger.Logger) Error
	Code() int
	Unwrap() error
	UnwrapLastError() string
}

const (
	codeSeparate  = " | "
	errorSeparate = " -> "
)

type yaError struct {
	code      int
	cause     error
	traceback string
}

// FromError builds an Error around an existing cause.
func FromError(code int, cause error, wrap string) Error {
	return &yaError{
		code:      code,
		cause:     cause,
		traceback: fmt.Sprintf("%s: %v", wrap, cause),
	}
}

// FromErrorWithLog is FromError that also reports the message to log.
func FromErrorWithLog(code int, cause error, wrap string, log yalogger.Logger) Error {
	msg := fmt.Sprintf("%s: %v", wrap, cause)
	log.Error(msg)

	return &yaError{
		code:      code,
		cause:     cause,
		traceback: msg,
	}
}

// FromString builds an Error whose cause is a new error carrying msg.
func FromString(code int, msg string) Error {
	return &yaError{
		code:      code,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

// FromStringWithLog is FromString that also reports the message to log.
func FromStringWithLog(code int, msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return FromString(code, msg)
}

// Error returns the code and the traceback, e.g. "409 | retry -> already in progress".
func (e *yaError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%d%s%s", e.code, codeSeparate, e.traceback)
}

// Unwrap returns the original cause.
func (e *yaError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

// UnwrapLastError returns the outermost message of the traceback.
func (e *yaError) UnwrapLastError() string {
	safetyCheck(&e)

	end := strings.Index(e.traceback, errorSeparate)
	if end == -1 {
		return e.traceback
	}

	return e.traceback[:end]
}

// Wrap prepends msg to the traceback. Call it each time the error crosses a
// layer boundary.
func (e *yaError) Wrap(msg string) Error {
	safetyCheck(&e)
	e.traceback = fmt.Sprintf("%s%s%s", msg, errorSeparate, e.traceback)

	return e
}

// Wrapf is Wrap with formatting.
func (e *yaError) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Sprintf(format, args...))
}

// WrapWithLog is Wrap that also reports msg to log.
func (e *yaError) WrapWithLog(msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

// Code returns the status code associated with the error.
func (e *yaError) Code() int {
	safetyCheck(&e)

	return e.code
}

// safetyCheck replaces a nil receiver with a teapot error so that methods
// called on a nil *yaError never dereference nil.
func safetyCheck(err **yaError) {
	if *err == nil {
		*err = &yaError{
			code:      http.StatusTeapot,
			cause:     ErrTeapot,
			traceback: ErrTeapot.Error(),
		}
	}
}
