// Package task defines the unit of work the executor schedules: its
// definition, the typed context handed to its work function, and the Result
// recorded once it reaches a terminal state.
package task

// WorkFunc is the body of a task. It receives a Context exposing the resolved
// results of the task's declared dependencies and returns a value or an error.
type WorkFunc func(ctx *Context) (any, error)

// Task is a named unit of work with declared dependencies and a priority.
type Task struct {
	// Name is unique within a graph.
	Name string
	// DependsOn lists the names of tasks that must succeed first.
	DependsOn []string
	// Priority orders dispatch within a wave; higher runs first. It never
	// preempts a task that is already running.
	Priority int
	// Work is invoked exactly once per run, when the task is dispatched.
	Work WorkFunc
}
