package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/wavegrid/internal/task"
)

// Module is the interface that all built-in modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredRunner holds the Go parts of one runner.
type RegisteredRunner struct {
	Description string
	// NewInput returns a pointer to a fresh input struct with `cty` field
	// tags. Nil means the runner accepts no arguments.
	NewInput func() any
	// Fn runs the task. input is the value NewInput returned, populated.
	Fn func(ctx *task.Context, input any) (any, error)
}

// Registry holds the runners of one application instance.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]*RegisteredRunner
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{runners: make(map[string]*RegisteredRunner)}
}

// Load registers every module.
func (r *Registry) Load(modules ...Module) {
	for _, m := range modules {
		m.Register(r)
	}
}

// RegisterRunner adds a runner under name. Registering the same name twice
// or a runner without Fn is a programming error and panics.
func (r *Registry) RegisterRunner(name string, runner *RegisteredRunner) {
	if name == "" || runner == nil || runner.Fn == nil {
		panic(fmt.Sprintf("runner %q must have a name and a function", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.runners[name]; exists {
		panic(fmt.Sprintf("runner with name '%s' already registered", name))
	}
	r.runners[name] = runner
}

// Lookup returns the runner registered under name.
func (r *Registry) Lookup(name string) (*RegisteredRunner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rr, ok := r.runners[name]
	return rr, ok
}

// Names returns the registered runner names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.runners))
	for name := range r.runners {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bind checks args against the runner's input and returns the work function
// for one task. Each invocation decodes a fresh input, so a runner that
// mutates its input does not leak state into later runs of the same graph.
func (rr *RegisteredRunner) Bind(args cty.Value) (task.WorkFunc, error) {
	fn := rr.Fn
	if rr.NewInput == nil {
		if err := expectNoArgs(args); err != nil {
			return nil, err
		}
		return func(ctx *task.Context) (any, error) {
			return fn(ctx, nil)
		}, nil
	}

	if err := DecodeArgs(args, rr.NewInput()); err != nil {
		return nil, err
	}
	newInput := rr.NewInput
	return func(ctx *task.Context) (any, error) {
		input := newInput()
		if err := DecodeArgs(args, input); err != nil {
			return nil, err
		}
		return fn(ctx, input)
	}, nil
}
