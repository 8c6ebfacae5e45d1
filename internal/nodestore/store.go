// Package nodestore defines the result store contract: where a run records
// each task's terminal Result and where downstream tasks and callers read
// them back.
//
// A store is created fresh for every run. The executor's scheduling goroutine
// is its only writer; workers, the dependency-view builder and callers holding
// the finished ExecutionState are readers.
package nodestore

import (
	"context"
	"errors"

	"github.com/vk/wavegrid/internal/task"
)

// ErrAlreadyRecorded is returned when a second Result is recorded for a task.
var ErrAlreadyRecorded = errors.New("result already recorded")

// Store records terminal task outcomes for one run.
//
// Implementations MUST be safe for concurrent readers alongside the single
// writer.
type Store interface {
	// Record stores the terminal Result of the named task. Each task is
	// recorded at most once; a second call fails with ErrAlreadyRecorded.
	Record(ctx context.Context, name string, result task.Result) error

	// Get returns the Result of the named task. The boolean is false when the
	// task never reached a terminal state (NotRun).
	Get(ctx context.Context, name string) (task.Result, bool)

	// Snapshot returns a copy of every recorded Result.
	Snapshot(ctx context.Context) map[string]task.Result
}

// DependencyView builds the dependency map injected into a task's Context:
// the value of each succeeded dependency, or an upstream-failed marker naming
// the failed task responsible.
func DependencyView(ctx context.Context, s Store, deps []string) map[string]task.Dep {
	view := make(map[string]task.Dep, len(deps))
	for _, name := range deps {
		res, ok := s.Get(ctx, name)
		switch {
		case ok && res.OK():
			view[name] = task.Dep{Value: res.Value}
		case ok && res.CausedBy != "":
			view[name] = task.Dep{UpstreamFailed: true, Cause: res.CausedBy}
		default:
			view[name] = task.Dep{UpstreamFailed: true, Cause: name}
		}
	}
	return view
}
