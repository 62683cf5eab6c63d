package sorting

// State is a step of the coordinator's per-call state machine:
//
//	Idle → Partitioning → Dispatching → AwaitingWorkers → Merging → Done
//
// Failed is terminal. It is reachable from Partitioning when the input holds
// a NaN key, and from Dispatching and AwaitingWorkers when a worker fails or
// the context ends.
type State int

const (
	StateIdle State = iota
	StatePartitioning
	StateDispatching
	StateAwaitingWorkers
	StateMerging
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StatePartitioning:    "partitioning",
	StateDispatching:     "dispatching",
	StateAwaitingWorkers: "awaiting_workers",
	StateMerging:         "merging",
	StateDone:            "done",
	StateFailed:          "failed",
}

// String returns the snake_case name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
