package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/wavegrid/internal/config"
	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/events"
	"github.com/vk/wavegrid/internal/executor"
)

// Run loads the pipeline, executes it and returns the final state. Task
// failures are reported through the state, not the error.
func (a *App) Run(ctx context.Context) (*executor.ExecutionState, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startServer(ctx, a.config.HealthcheckPort); err != nil {
			return nil, err
		}
		defer func() { _ = a.closeServer(ctx) }()
	}

	model, g, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	opts, cleanup, err := a.executorOptions(ctx, model.Settings)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	exec, err := executor.New(g, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure executor: %w", err)
	}

	if g.Len() == 0 {
		a.logger.Warn("No tasks found in pipeline, execution not required.")
	}
	a.logger.Info("🚀 Starting concurrent execution...", "tasks", g.Len(), "workers", exec.Workers())
	state, err := exec.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", "run_id", state.RunID, "cancelled", state.Cancelled())

	a.logger.Debug("App.Run method finished.")
	return state, nil
}

// executorOptions resolves settings (CLI value first, then the pipeline
// block) and attaches the configured sinks and tracer. cleanup releases
// whatever was opened.
func (a *App) executorOptions(ctx context.Context, settings config.Settings) ([]executor.Option, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	workers := a.config.Workers
	if workers == 0 && settings.Workers != nil {
		workers = *settings.Workers
	}
	if workers == 0 {
		workers = executor.DefaultWorkers()
	}

	timeout := a.config.TaskTimeout
	if timeout == 0 && settings.TaskTimeout != nil {
		timeout = *settings.TaskTimeout
	}

	sinks := []events.Sink{events.LogSink{}, a.metrics}
	if a.config.EventsURL != "" {
		sock, err := events.DialSocket(ctx, a.config.EventsURL, events.SocketOptions{})
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to connect event stream: %w", err)
		}
		closers = append(closers, func() {
			if err := sock.Close(); err != nil {
				a.logger.Warn("Closing event stream failed.", "error", err)
			}
		})
		sinks = append(sinks, sock)
	}

	opts := []executor.Option{
		executor.WithWorkers(workers),
		executor.WithTaskTimeout(timeout),
		executor.WithSink(events.Multi(sinks...)),
	}

	if a.config.Trace {
		tracer, shutdown, err := newTracer(a.outW)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("Tracer shutdown failed.", "error", err)
			}
		})
		opts = append(opts, executor.WithTracer(tracer))
	}

	return opts, cleanup, nil
}
