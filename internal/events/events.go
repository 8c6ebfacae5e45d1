package events

import (
	"context"
	"time"

	"github.com/vk/wavegrid/internal/node"
)

// Kind identifies what happened.
type Kind string

const (
	RunStarted    Kind = "run_started"
	RunFinished   Kind = "run_finished"
	TaskReady     Kind = "task_ready"
	TaskStarted   Kind = "task_started"
	TaskSucceeded Kind = "task_succeeded"
	TaskFailed    Kind = "task_failed"
	TaskSkipped   Kind = "task_skipped"
)

// Event is one lifecycle notification. Task fields are empty for run events.
type Event struct {
	Kind     Kind          `json:"kind"`
	RunID    string        `json:"run_id"`
	Time     time.Time     `json:"time"`
	Task     string        `json:"task,omitempty"`
	State    node.State    `json:"-"`
	Priority int           `json:"priority,omitempty"`
	Worker   int           `json:"worker,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`
	CausedBy string        `json:"caused_by,omitempty"`
	// Cancelled is set on RunFinished when the run stopped early.
	Cancelled bool `json:"cancelled,omitempty"`
}

// ForState returns the task event kind announcing a transition into s.
func ForState(s node.State) Kind {
	switch s {
	case node.Ready:
		return TaskReady
	case node.Running:
		return TaskStarted
	case node.Succeeded:
		return TaskSucceeded
	case node.Failed:
		return TaskFailed
	case node.Skipped:
		return TaskSkipped
	default:
		return ""
	}
}

// Sink receives events.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

// Emit calls f.
func (f SinkFunc) Emit(ctx context.Context, e Event) { f(ctx, e) }

// Nop discards every event.
var Nop Sink = nopSink{}

type nopSink struct{}

func (nopSink) Emit(context.Context, Event) {}

// Multi fans each event out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if m, ok := s.(multi); ok {
			out = append(out, m...)
			continue
		}
		out = append(out, s)
	}
	switch len(out) {
	case 0:
		return Nop
	case 1:
		return out[0]
	default:
		return out
	}
}

type multi []Sink

func (m multi) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}
