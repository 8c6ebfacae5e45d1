package testutil

import "time"

// ExecutionRecord holds the start and end times for a single task's execution.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two executions were running at the same time.
func (r ExecutionRecord) Overlaps(o ExecutionRecord) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}
