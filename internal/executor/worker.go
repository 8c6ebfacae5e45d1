package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/events"
	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/task"
)

// worker is the processing loop for a single pool slot. It exits when jobs
// is closed.
func (e *Executor) worker(ctx context.Context, workerID int, jobs <-chan job, done chan<- completion) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "worker_id", workerID)

	for j := range jobs {
		done <- completion{
			name:     j.name,
			priority: j.priority,
			worker:   workerID,
			result:   e.execute(ctx, workerID, j),
		}
	}
	logger.Debug("Worker finished.", "worker_id", workerID)
}

// execute invokes one work function under its span, timeout and panic guard.
func (e *Executor) execute(ctx context.Context, workerID int, j job) task.Result {
	ctx, logger := ctxlog.With(ctx, "task", j.name, "worker_id", workerID)

	ctx, span := e.tracer.Start(ctx, "task "+j.name,
		trace.WithAttributes(
			attribute.String("wavegrid.run_id", RunIDFromContext(ctx)),
			attribute.String("wavegrid.task", j.name),
			attribute.Int("wavegrid.priority", j.priority),
			attribute.Int("wavegrid.worker", workerID),
		),
	)
	defer span.End()

	if e.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.taskTimeout)
		defer cancel()
	}

	ev := e.taskEvent(events.TaskStarted, j.name, node.Running)
	ev.Worker = workerID
	e.emit(ctx, ev)
	logger.Debug("Executing task.")

	started := time.Now()
	value, err := invoke(task.NewContext(ctx, j.name, j.deps), j)
	finished := time.Now()

	if err != nil && ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("task %q exceeded timeout %s: %w", j.name, e.taskTimeout, err)
	}

	var res task.Result
	if err != nil {
		res = task.Failed(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("Task returned an error.", "error", err)
	} else {
		res = task.Succeeded(value)
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.String("wavegrid.state", res.State.String()))
	res.StartedAt = started
	res.FinishedAt = finished
	return res
}

// invoke calls the work function, converting a panic into a *PanicError.
func invoke(c *task.Context, j job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = &PanicError{Task: j.name, Value: r, Stack: debug.Stack()}
		}
	}()
	return j.work(c)
}
