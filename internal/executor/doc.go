// Package executor runs a task graph to completion over a bounded worker pool.
//
// An Executor owns one graph and its configuration. Each call to Run creates
// a fresh ExecutionState and result store, seals the graph, validates it, and
// then drives a wave loop:
//
//  1. ask the scheduler.Tracker for the next wave;
//  2. mark skipped tasks terminal and dispatch ready ones into free slots;
//  3. block until at least one in-flight task finishes, then drain every
//     other completion that is already waiting;
//  4. repeat until every task is terminal.
//
// Only the goroutine inside Run writes ExecutionState. Workers execute work
// functions and report back over a channel.
//
// Cancelling the context passed to Run stops dispatch. Tasks already on a
// worker keep running on a context detached from that cancellation, and the
// returned state reports Cancelled.
package executor
