package events

import (
	"context"
	"log/slog"

	"github.com/vk/wavegrid/internal/ctxlog"
)

// LogSink writes every event to the logger carried by the context. Failures
// log at Warn, run and task transitions at Info, readiness at Debug.
type LogSink struct{}

// Emit implements Sink.
func (LogSink) Emit(ctx context.Context, e Event) {
	logger := ctxlog.FromContext(ctx)

	args := []any{"event", string(e.Kind), "run_id", e.RunID}
	if e.Task != "" {
		args = append(args, "task", e.Task)
	}
	if e.Worker > 0 {
		args = append(args, "worker_id", e.Worker)
	}
	if e.Duration > 0 {
		args = append(args, "duration", e.Duration)
	}
	if e.CausedBy != "" {
		args = append(args, "caused_by", e.CausedBy)
	}
	if e.Error != "" {
		args = append(args, "error", e.Error)
	}
	if e.Kind == RunFinished {
		args = append(args, "cancelled", e.Cancelled)
	}

	level := slog.LevelInfo
	msg := "Task state changed."
	switch e.Kind {
	case TaskReady:
		level = slog.LevelDebug
	case TaskFailed:
		level = slog.LevelWarn
		msg = "Task failed."
	case TaskSkipped:
		msg = "Task skipped."
	case RunStarted:
		msg = "Run started."
	case RunFinished:
		msg = "Run finished."
	}
	logger.Log(ctx, level, msg, args...)
}
