package yaerrors

import "errors"

// ErrTeapot is the cause reported by methods called on a nil Error, in place
// of a nil pointer dereference.
var ErrTeapot = errors.New("backend developer is a teapot")
