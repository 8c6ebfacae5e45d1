package dag

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGraph is matched by every structural graph error.
	ErrInvalidGraph = errors.New("invalid task graph")
	// ErrCycleDetected is matched by *CycleDetectedError.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrInvalidTask rejects a task definition that cannot be registered.
	ErrInvalidTask = errors.New("invalid task")
	// ErrGraphSealed rejects registration after a run has started.
	ErrGraphSealed = errors.New("task graph is sealed")
)

// DuplicateTaskError is returned by Register when the name is already taken.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("%s: duplicate task name %q", ErrInvalidGraph, e.Name)
}

func (e *DuplicateTaskError) Unwrap() error { return ErrInvalidGraph }

// UnknownDependencyError is returned by Validate when Task depends on a name
// that was never registered.
type UnknownDependencyError struct {
	Task    string
	Missing string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("%s: task %q depends on unknown task %q", ErrInvalidGraph, e.Task, e.Missing)
}

func (e *UnknownDependencyError) Unwrap() error { return ErrInvalidGraph }

// CycleDetectedError is returned by Validate when the dependency relation is
// cyclic. Cycle is one witness path in dependency direction, closed on its
// first element: [a b a] means a depends on b and b depends on a.
type CycleDetectedError struct {
	Cycle []string
}

func (e *CycleDetectedError) Error() string {
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("%s: %s", ErrInvalidGraph, ErrCycleDetected)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidGraph, ErrCycleDetected, strings.Join(e.Cycle, " -> "))
}

// Is makes errors.Is match both ErrCycleDetected and ErrInvalidGraph.
func (e *CycleDetectedError) Is(target error) bool {
	return target == ErrCycleDetected || target == ErrInvalidGraph
}

// Members returns the distinct task names on the cycle.
func (e *CycleDetectedError) Members() []string {
	if len(e.Cycle) <= 1 {
		return append([]string(nil), e.Cycle...)
	}
	return append([]string(nil), e.Cycle[:len(e.Cycle)-1]...)
}
