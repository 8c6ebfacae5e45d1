// Package node defines the per-task execution state machine shared by the
// scheduler, the executor and the result store.
package node

import "fmt"

// State represents the execution state of a task within a single run.
type State int32

const (
	// Pending indicates the task is waiting for its dependencies to complete.
	Pending State = iota
	// Ready indicates every dependency succeeded and the task awaits a free worker.
	Ready
	// Running indicates the task is currently being executed by a worker.
	Running
	// Succeeded indicates the work function returned a value.
	Succeeded
	// Failed indicates the work function returned an error or panicked.
	Failed
	// Skipped indicates the task can never run because an upstream task failed.
	Skipped
)

var stateNames = [...]string{
	Pending:   "PENDING",
	Ready:     "READY",
	Running:   "RUNNING",
	Succeeded: "SUCCEEDED",
	Failed:    "FAILED",
	Skipped:   "SKIPPED",
}

// String returns the upper-case name of the state.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	switch s {
	case Succeeded, Failed, Skipped:
		return true
	default:
		return false
	}
}

// CanTransition reports whether from -> to is an edge of the state machine.
//
//	PENDING -> READY | SKIPPED
//	READY   -> RUNNING | SKIPPED
//	RUNNING -> SUCCEEDED | FAILED
func CanTransition(from, to State) bool {
	switch from {
	case Pending:
		return to == Ready || to == Skipped
	case Ready:
		return to == Running || to == Skipped
	case Running:
		return to == Succeeded || to == Failed
	default:
		return false
	}
}

// TransitionError reports an attempted edge that the state machine forbids.
type TransitionError struct {
	Task string
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("disallowed transition for %q: %s -> %s", e.Task, e.From, e.To)
}
