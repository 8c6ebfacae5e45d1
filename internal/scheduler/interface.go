package scheduler

import "github.com/vk/wavegrid/internal/node"

// Status is one task's entry in a snapshot.
type Status struct {
	State node.State
	// CausedBy names the root failed task for a Skipped status.
	CausedBy string
}

// Snapshot maps task names to their current status. Missing names are
// treated as Pending.
type Snapshot map[string]Status

func (s Snapshot) state(name string) node.State {
	if st, ok := s[name]; ok {
		return st.State
	}
	return node.Pending
}

// Wave is the outcome of one readiness computation.
type Wave struct {
	// Ready lists runnable tasks by descending priority, then registration order.
	Ready []string
	// Skipped maps each newly unreachable task to the failed task that caused it.
	Skipped map[string]string
}

// Empty reports whether the wave neither dispatches nor skips anything.
func (w Wave) Empty() bool {
	return len(w.Ready) == 0 && len(w.Skipped) == 0
}
