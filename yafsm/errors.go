package yafsm

import "errors"

var ErrTransitionNotPermitted = errors.New("transition not permitted")
