// Package dag holds the task graph: the set of task definitions and their
// dependency edges.
//
// A Graph is mutable only while it is being assembled. Validate checks
// referential integrity and acyclicity without side effects, and Seal freezes
// the graph for the lifetime of every run that uses it. Executors seal the
// graph before their first run, so registering tasks from inside a work
// function fails with ErrGraphSealed instead of mutating a running schedule.
package dag
