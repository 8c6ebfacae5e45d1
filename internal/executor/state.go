package executor

import (
	"context"
	"sync"
	"time"

	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/nodestore"
	"github.com/vk/wavegrid/internal/scheduler"
	"github.com/vk/wavegrid/internal/task"
)

// ExecutionState is the record of one run. It is written only by the run
// that created it and may be read concurrently.
type ExecutionState struct {
	// RunID identifies the run in logs, events and spans.
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	mu        sync.RWMutex
	names     []string
	states    map[string]node.State
	dispatch  []string
	cancelled bool
	store     nodestore.Store
}

func newExecutionState(runID string, names []string, store nodestore.Store) *ExecutionState {
	states := make(map[string]node.State, len(names))
	for _, n := range names {
		states[n] = node.Pending
	}
	return &ExecutionState{
		RunID:     runID,
		StartedAt: time.Now(),
		names:     names,
		states:    states,
		store:     store,
	}
}

// Get returns the Result of the named task. The boolean is false if the task
// never reached a terminal state.
func (s *ExecutionState) Get(name string) (task.Result, bool) {
	return s.store.Get(context.Background(), name)
}

// State returns the last state of the named task. Unknown names report Pending.
func (s *ExecutionState) State(name string) node.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[name]
}

// Names returns every task in registration order.
func (s *ExecutionState) Names() []string {
	return append([]string(nil), s.names...)
}

// DispatchOrder returns the tasks in the order they were handed to workers.
func (s *ExecutionState) DispatchOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.dispatch...)
}

// Cancelled reports whether the run stopped dispatching because its context
// was cancelled.
func (s *ExecutionState) Cancelled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cancelled
}

// Results returns every recorded Result.
func (s *ExecutionState) Results() map[string]task.Result {
	return s.store.Snapshot(context.Background())
}

// InState lists, in registration order, the tasks whose last state is st.
func (s *ExecutionState) InState(st node.State) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, n := range s.names {
		if s.states[n] == st {
			out = append(out, n)
		}
	}
	return out
}

// Succeeded lists the tasks that succeeded.
func (s *ExecutionState) Succeeded() []string { return s.InState(node.Succeeded) }

// Failed lists the tasks that failed.
func (s *ExecutionState) Failed() []string { return s.InState(node.Failed) }

// Skipped lists the tasks skipped because of an upstream failure.
func (s *ExecutionState) Skipped() []string { return s.InState(node.Skipped) }

// Summary counts tasks by outcome.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	// NotRun counts tasks that never reached a terminal state.
	NotRun    int
	Cancelled bool
	Duration  time.Duration
}

// OK reports whether every task succeeded and the run was not cancelled.
func (s Summary) OK() bool {
	return !s.Cancelled && s.Succeeded == s.Total
}

// Summary tallies the run.
func (s *ExecutionState) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{Total: len(s.names), Cancelled: s.cancelled}
	if !s.FinishedAt.IsZero() {
		sum.Duration = s.FinishedAt.Sub(s.StartedAt)
	}
	for _, n := range s.names {
		switch s.states[n] {
		case node.Succeeded:
			sum.Succeeded++
		case node.Failed:
			sum.Failed++
		case node.Skipped:
			sum.Skipped++
		default:
			sum.NotRun++
		}
	}
	return sum
}

// transition moves name to the given state, refusing edges the state
// machine does not allow.
func (s *ExecutionState) transition(name string, to node.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.states[name]
	if !node.CanTransition(from, to) {
		return &node.TransitionError{Task: name, From: from, To: to}
	}
	s.states[name] = to
	if to == node.Running {
		s.dispatch = append(s.dispatch, name)
	}
	return nil
}

// finish records a terminal result and moves the task into its state.
func (s *ExecutionState) finish(ctx context.Context, name string, res task.Result) error {
	if err := s.transition(name, res.State); err != nil {
		return err
	}
	return s.store.Record(ctx, name, res)
}

func (s *ExecutionState) markCancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = true
}

func (s *ExecutionState) markFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FinishedAt = time.Now()
}

// snapshot is the view handed to the readiness tracker.
func (s *ExecutionState) snapshot(ctx context.Context) scheduler.Snapshot {
	s.mu.RLock()
	snap := make(scheduler.Snapshot, len(s.states))
	for n, st := range s.states {
		snap[n] = scheduler.Status{State: st}
	}
	s.mu.RUnlock()

	for n, res := range s.store.Snapshot(ctx) {
		if res.State == node.Skipped {
			snap[n] = scheduler.Status{State: node.Skipped, CausedBy: res.CausedBy}
		}
	}
	return snap
}
