package pipeline

import (
	"context"
	"fmt"

	"github.com/vk/wavegrid/internal/config"
	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/dag"
	"github.com/vk/wavegrid/internal/registry"
)

// UnknownRunnerError reports a task that names a runner nobody registered.
type UnknownRunnerError struct {
	Task   string
	Runner string
	Source string
}

func (e *UnknownRunnerError) Error() string {
	msg := fmt.Sprintf("task %q uses unknown runner %q", e.Task, e.Runner)
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	return msg
}

// ArgumentError reports arguments that do not fit the runner's input.
type ArgumentError struct {
	Task   string
	Source string
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: task %q: %v", e.Source, e.Task, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// FromModel builds a validated graph from a loaded model. Each task's
// arguments are decoded into its runner's input here, so configuration
// mistakes surface before anything runs.
func FromModel(ctx context.Context, model *config.Model, reg *registry.Registry) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := dag.New()

	for _, t := range model.Tasks {
		runner, ok := reg.Lookup(t.Runner)
		if !ok {
			return nil, &UnknownRunnerError{Task: t.Name, Runner: t.Runner, Source: t.Source}
		}
		work, err := runner.Bind(t.Arguments)
		if err != nil {
			return nil, &ArgumentError{Task: t.Name, Source: t.Source, Err: err}
		}
		if err := g.Register(t.Name, t.DependsOn, t.Priority, work); err != nil {
			return nil, fmt.Errorf("%s: %w", t.Source, err)
		}
		logger.Debug("Bound task to runner.", "task", t.Name, "runner", t.Runner, "depends_on", t.DependsOn)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
