// Package events carries task lifecycle notifications out of the executor.
//
// The executor emits an Event on every state change to a single Sink supplied
// at construction. Sinks are capabilities: a run without observers gets Nop,
// never a nil check. Emit is called from the scheduling goroutine and from
// workers, so sinks must be safe for concurrent use and must not block for
// long.
package events
