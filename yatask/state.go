package yatask

// State is the lifecycle stage of a Task.
type State uint8

const (
	StatePending State = iota
	StateRunning
	StateRefreshing
	StateRetrying
	StateSuccess
	StateFailure
)

// States lists every State in declaration order.
func States() []State {
	return []State{
		StatePending,
		StateRunning,
		StateRefreshing,
		StateRetrying,
		StateSuccess,
		StateFailure,
	}
}

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateRefreshing:
		return "refreshing"
	case StateRetrying:
		return "retrying"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// InFlight reports whether a computation is under way.
func (s State) InFlight() bool {
	return s == StateRunning || s == StateRefreshing || s == StateRetrying
}

// Settled reports whether s is Success or Failure.
func (s State) Settled() bool {
	return s == StateSuccess || s == StateFailure
}

// GroupState is the aggregate state of a group, derived from its members.
type GroupState uint8

const (
	GroupIdle GroupState = iota
	GroupActive
	GroupCompleted
	GroupFailed
	GroupPartial
)

func (s GroupState) String() string {
	switch s {
	case GroupIdle:
		return "idle"
	case GroupActive:
		return "active"
	case GroupCompleted:
		return "completed"
	case GroupFailed:
		return "failed"
	case GroupPartial:
		return "partial"
	default:
		return "unknown"
	}
}

// DeriveState computes the aggregate state of a set of member states. Rules
// apply top to bottom:
//
//	no members                        → idle
//	any running/refreshing/retrying   → active
//	all success                       → completed
//	all failure                       → failed
//	all pending                       → idle
//	otherwise                         → partial
func DeriveState(states ...State) GroupState {
	if len(states) == 0 {
		return GroupIdle
	}

	var success, failure, pending int

	for _, state := range states {
		switch {
		case state.InFlight():
			return GroupActive
		case state == StateSuccess:
			success++
		case state == StateFailure:
			failure++
		case state == StatePending:
			pending++
		}
	}

	switch len(states) {
	case success:
		return GroupCompleted
	case failure:
		return GroupFailed
	case pending:
		return GroupIdle
	default:
		return GroupPartial
	}
}
