package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/events"
	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/nodestore"
	"github.com/vk/wavegrid/internal/scheduler"
	"github.com/vk/wavegrid/internal/task"
)

type runIDKey struct{}

// RunIDFromContext returns the ID of the run a work function belongs to, or
// "" outside a run.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// job is one dispatched task on its way to a worker.
type job struct {
	name     string
	priority int
	work     task.WorkFunc
	deps     map[string]task.Dep
}

// completion is a worker's report for one job.
type completion struct {
	name     string
	priority int
	worker   int
	result   task.Result
}

// Run executes every task of the graph once and returns the run's state.
//
// Structural problems (unknown dependencies, cycles) are returned before any
// work function is invoked. Task failures are never returned as errors; they
// are visible through the returned state. The error is non-nil after
// validation only for ErrAlreadyRunning or a *DeadlockError.
func (e *Executor) Run(ctx context.Context) (*ExecutionState, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.graph.Seal()
	tracker, err := scheduler.NewTracker(e.graph)
	if err != nil {
		return nil, fmt.Errorf("validating task graph: %w", err)
	}

	runID := uuid.NewString()
	ctx = context.WithValue(ctx, runIDKey{}, runID)
	ctx, logger := ctxlog.With(ctx, "run_id", runID)
	state := newExecutionState(runID, e.graph.Names(), e.newStore())

	logger.Info("▶️ Starting run.", "tasks", len(state.names), "workers", e.workers)
	e.emit(ctx, events.Event{Kind: events.RunStarted, RunID: runID})

	runErr := e.loop(ctx, tracker, state)

	state.markFinished()
	sum := state.Summary()
	e.emit(ctx, events.Event{
		Kind:      events.RunFinished,
		RunID:     runID,
		Duration:  sum.Duration,
		Cancelled: sum.Cancelled,
	})
	logger.Info("⏹️ Run finished.",
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
		"skipped", sum.Skipped,
		"not_run", sum.NotRun,
		"cancelled", sum.Cancelled,
		"duration", sum.Duration,
	)
	return state, runErr
}

// loop is the wave loop. It owns state for the duration of the run.
func (e *Executor) loop(ctx context.Context, tracker *scheduler.Tracker, state *ExecutionState) error {
	logger := ctxlog.FromContext(ctx)

	// Workers never see the run's cancellation; in-flight tasks finish.
	workCtx := context.WithoutCancel(ctx)
	jobs := make(chan job)
	done := make(chan completion, len(state.names))

	var pool errgroup.Group
	for i := 1; i <= e.workers; i++ {
		workerID := i
		pool.Go(func() error {
			e.worker(workCtx, workerID, jobs, done)
			return nil
		})
	}
	defer func() {
		close(jobs)
		_ = pool.Wait()
	}()

	stopped := false
	inFlight := 0
	wave := 0

	for {
		if !stopped && ctx.Err() != nil {
			e.cancel(ctx, state)
			stopped = true
		}

		if !stopped {
			wave++
			next := tracker.Next(state.snapshot(ctx))
			logger.Debug("Computed wave.", "wave", wave, "ready", len(next.Ready), "skipped", len(next.Skipped), "in_flight", inFlight)

			if err := e.applySkips(ctx, state, next.Skipped); err != nil {
				return err
			}
			for _, name := range next.Ready {
				if state.State(name) != node.Pending {
					continue
				}
				if err := state.transition(name, node.Ready); err != nil {
					return err
				}
				e.emitTask(ctx, events.TaskReady, name, node.Ready)
			}
			for _, name := range next.Ready {
				if inFlight >= e.workers {
					break
				}
				j, err := e.prepare(ctx, state, name)
				if err != nil {
					return err
				}
				jobs <- j
				inFlight++
			}
		}

		if inFlight == 0 {
			if stopped {
				return nil
			}
			remaining := tracker.Remaining(state.snapshot(ctx))
			if len(remaining) == 0 {
				return nil
			}
			logger.Error("Deadlock detected.", "remaining", remaining)
			return &DeadlockError{Remaining: remaining}
		}

		// Nil for contexts that are never cancelled, and after the run was
		// stopped, so the select only waits on completions.
		var cancelCh <-chan struct{}
		if !stopped {
			cancelCh = ctx.Done()
		}

		// Wait for any task to finish, then take every other completion
		// that is already queued so they are processed as one wave.
		select {
		case c := <-done:
			if err := e.complete(ctx, state, c); err != nil {
				return err
			}
			inFlight--
		case <-cancelCh:
			continue
		}
	drain:
		for {
			select {
			case c := <-done:
				if err := e.complete(ctx, state, c); err != nil {
					return err
				}
				inFlight--
			default:
				break drain
			}
		}
	}
}

// applySkips records Skipped results in registration order.
func (e *Executor) applySkips(ctx context.Context, state *ExecutionState, skipped map[string]string) error {
	if len(skipped) == 0 {
		return nil
	}
	for _, name := range state.names {
		cause, ok := skipped[name]
		if !ok {
			continue
		}
		if err := state.finish(ctx, name, task.SkippedBy(cause)); err != nil {
			return err
		}
		ev := e.taskEvent(events.TaskSkipped, name, node.Skipped)
		ev.CausedBy = cause
		e.emit(ctx, ev)
	}
	return nil
}

// prepare moves name to Running and builds its job, including the view of
// its dependencies' results.
func (e *Executor) prepare(ctx context.Context, state *ExecutionState, name string) (job, error) {
	t, ok := e.graph.Task(name)
	if !ok {
		return job{}, fmt.Errorf("task %q vanished from the graph", name)
	}
	if err := state.transition(name, node.Running); err != nil {
		return job{}, err
	}
	return job{
		name:     name,
		priority: t.Priority,
		work:     t.Work,
		deps:     nodestore.DependencyView(ctx, state.store, t.DependsOn),
	}, nil
}

func (e *Executor) complete(ctx context.Context, state *ExecutionState, c completion) error {
	if err := state.finish(ctx, c.name, c.result); err != nil {
		return err
	}
	ev := events.Event{
		Kind:     events.ForState(c.result.State),
		Task:     c.name,
		State:    c.result.State,
		Priority: c.priority,
		Worker:   c.worker,
		Duration: c.result.Duration(),
	}
	if c.result.Err != nil {
		ev.Error = c.result.Err.Error()
	}
	e.emit(ctx, ev)
	return nil
}

func (e *Executor) cancel(ctx context.Context, state *ExecutionState) {
	state.markCancelled()
	ctxlog.FromContext(ctx).Warn("Run cancelled, no further tasks will be dispatched.", "cause", context.Cause(ctx))
}

func (e *Executor) taskEvent(kind events.Kind, name string, st node.State) events.Event {
	ev := events.Event{Kind: kind, Task: name, State: st}
	if t, ok := e.graph.Task(name); ok {
		ev.Priority = t.Priority
	}
	return ev
}

func (e *Executor) emitTask(ctx context.Context, kind events.Kind, name string, st node.State) {
	e.emit(ctx, e.taskEvent(kind, name, st))
}

// emit stamps the event with the run ID from the state and the current time.
func (e *Executor) emit(ctx context.Context, ev events.Event) {
	if ev.RunID == "" {
		ev.RunID = RunIDFromContext(ctx)
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	e.sink.Emit(ctx, ev)
}
