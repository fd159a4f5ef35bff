package yatask

import (
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yafsm"
)

// DefaultPolicy is the conventional lifecycle:
//
//	pending    → running
//	running    → success, failure
//	success    → refreshing
//	failure    → retrying
//	refreshing → success, failure
//	retrying   → success, failure
//	any        → pending
//
// Tasks do not enforce it; pass it to Checked.
func DefaultPolicy() *yafsm.Table[State] {
	return yafsm.NewTable[State]().
		Permit(StatePending, StateRunning).
		Permit(StateRunning, StateSuccess, StateFailure).
		Permit(StateSuccess, StateRefreshing).
		Permit(StateFailure, StateRetrying).
		Permit(StateRefreshing, StateSuccess, StateFailure).
		Permit(StateRetrying, StateSuccess, StateFailure).
		PermitAny(StatePending)
}

// Checked applies the transition only when policy permits it. A nil policy
// means DefaultPolicy. Refusals wrap yafsm.ErrTransitionNotPermitted.
//
// Example:
//
//	next, err := yatask.Checked(nil, task, yatask.StateSuccess, yatask.Payload[int]{Data: &value})
func Checked[D, L, G any](
	policy *yafsm.Table[State],
	task Task[D, L, G],
	target State,
	payload Payload[D],
) (Task[D, L, G], yaerrors.Error) {
	if policy == nil {
		policy = DefaultPolicy()
	}

	if err := policy.Check(task.State(), target); err != nil {
		return nil, err.Wrap("[TASK] transition refused")
	}

	return task.ApplyTransition(target, payload)
}
