package task

import (
	"fmt"
	"time"

	"github.com/vk/wavegrid/internal/node"
)

// Result is the terminal outcome of one task: exactly one of a value
// (Succeeded), an error (Failed) or the name of the failed task that made it
// unreachable (Skipped).
type Result struct {
	State node.State
	Value any
	Err   error
	// CausedBy is set for Skipped results.
	CausedBy string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded returns a successful Result carrying v.
func Succeeded(v any) Result {
	return Result{State: node.Succeeded, Value: v}
}

// Failed returns a failed Result carrying err.
func Failed(err error) Result {
	return Result{State: node.Failed, Err: err}
}

// SkippedBy returns a skipped Result caused by the named failed task.
func SkippedBy(cause string) Result {
	return Result{State: node.Skipped, CausedBy: cause}
}

// OK reports whether the task succeeded.
func (r Result) OK() bool { return r.State == node.Succeeded }

// Duration is the wall time the work function ran for. Zero for skipped tasks.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r Result) String() string {
	switch r.State {
	case node.Succeeded:
		return fmt.Sprintf("SUCCEEDED(%v)", r.Value)
	case node.Failed:
		return fmt.Sprintf("FAILED(%v)", r.Err)
	case node.Skipped:
		return fmt.Sprintf("SKIPPED(caused_by=%q)", r.CausedBy)
	default:
		return r.State.String()
	}
}
