// Package env_vars provides the "env_vars" runner, which snapshots process
// environment variables as a task result.
package env_vars

import (
	"os"
	"sort"
	"strings"

	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Environ lists KEY=VALUE pairs. Nil means os.Environ.
	Environ func() []string
}

// Input defines the optional filters of the env_vars runner.
type Input struct {
	// Prefix keeps only variables starting with it.
	Prefix *string `cty:"prefix"`
	// Names keeps only the listed variables.
	Names []string `cty:"names"`
	// Required names must be present, or the task fails.
	Required []string `cty:"required"`
}

// Output is the runner's result.
type Output struct {
	All map[string]string
}

// Run collects the matching variables.
func (m *Module) Run(_ *task.Context, input *Input) (*Output, error) {
	environ := m.Environ
	if environ == nil {
		environ = os.Environ
	}

	var wanted map[string]struct{}
	if len(input.Names) > 0 {
		wanted = make(map[string]struct{}, len(input.Names))
		for _, n := range input.Names {
			wanted[n] = struct{}{}
		}
	}

	envMap := make(map[string]string)
	for _, e := range environ() {
		k, v, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if input.Prefix != nil && !strings.HasPrefix(k, *input.Prefix) {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[k]; !ok {
				continue
			}
		}
		envMap[k] = v
	}

	var missing []string
	for _, n := range input.Required {
		if _, ok := envMap[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingError{Names: missing}
	}
	return &Output{All: envMap}, nil
}

// MissingError lists required variables that were not set.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Names, ", ")
}

// Register registers the runner with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("env_vars", &registry.RegisteredRunner{
		Description: "Snapshot process environment variables.",
		NewInput:    func() any { return new(Input) },
		Fn: func(ctx *task.Context, in any) (any, error) {
			return m.Run(ctx, in.(*Input))
		},
	})
}
