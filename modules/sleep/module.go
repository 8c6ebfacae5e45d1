// Package sleep provides the "sleep" runner, which waits for a duration and
// then returns a value. It is handy for exercising parallelism and timeouts.
package sleep

import (
	"fmt"
	"time"

	"github.com/vk/wavegrid/internal/ctxlog"
	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the sleep runner.
type Input struct {
	Duration string  `cty:"duration"`
	Result   *string `cty:"result"`
}

// Run waits for the configured duration or until the task context is done.
func Run(ctx *task.Context, input *Input) (any, error) {
	d, err := time.ParseDuration(input.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Sleeping.", "duration", d)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if input.Result != nil {
		return *input.Result, nil
	}
	return d.String(), nil
}

// Register registers the runner with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("sleep", &registry.RegisteredRunner{
		Description: "Wait for a duration, then return a value.",
		NewInput:    func() any { return new(Input) },
		Fn: func(ctx *task.Context, in any) (any, error) {
			return Run(ctx, in.(*Input))
		},
	})
}
