// Package scheduler decides what can run next.
//
// A Tracker looks at a snapshot of per-task states and returns the next Wave:
// the tasks whose every dependency has succeeded, in dispatch order, plus the
// tasks that can never run because something upstream failed. It holds no
// mutable state of its own, so the executor is free to call it once per batch
// of completions without coordinating with workers.
package scheduler
