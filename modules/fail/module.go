// Package fail provides the "fail" runner, which always returns an error.
// Pipelines use it to exercise failure isolation and skip propagation.
package fail

import (
	"errors"

	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the fail runner.
type Input struct {
	Message *string `cty:"message"`
}

// DefaultMessage is the error text used when no message is configured.
const DefaultMessage = "task failed on purpose"

// Run returns the configured error.
func Run(_ *task.Context, input *Input) (any, error) {
	if input.Message != nil && *input.Message != "" {
		return nil, errors.New(*input.Message)
	}
	return nil, errors.New(DefaultMessage)
}

// Register registers the runner with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("fail", &registry.RegisteredRunner{
		Description: "Always fail with the given message.",
		NewInput:    func() any { return new(Input) },
		Fn: func(ctx *task.Context, in any) (any, error) {
			return Run(ctx, in.(*Input))
		},
	})
}
