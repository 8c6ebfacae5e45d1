package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUpstreamFailed is returned when a dependency did not succeed.
	ErrUpstreamFailed = errors.New("upstream failed")
	// ErrUndeclaredDependency is returned when a task asks for a result it
	// never declared in DependsOn.
	ErrUndeclaredDependency = errors.New("undeclared dependency")
)

// Dep is the view of one dependency's outcome injected into a Context.
type Dep struct {
	// Value is the dependency's result when it succeeded.
	Value any
	// UpstreamFailed marks a dependency that did not succeed.
	UpstreamFailed bool
	// Cause names the failed task responsible when UpstreamFailed is set.
	Cause string
}

// Context is passed uniformly to every work function. It embeds the run's
// context.Context and exposes the results of declared dependencies.
type Context struct {
	context.Context

	name string
	deps map[string]Dep
}

// NewContext builds the context for the named task. deps is owned by the
// returned Context.
func NewContext(ctx context.Context, name string, deps map[string]Dep) *Context {
	if deps == nil {
		deps = map[string]Dep{}
	}
	return &Context{Context: ctx, name: name, deps: deps}
}

// Task returns the name of the task being executed.
func (c *Context) Task() string { return c.name }

// Dep returns the value produced by the named dependency.
func (c *Context) Dep(name string) (any, error) {
	d, ok := c.deps[name]
	if !ok {
		return nil, fmt.Errorf("task %q reading %q: %w", c.name, name, ErrUndeclaredDependency)
	}
	if d.UpstreamFailed {
		return nil, fmt.Errorf("task %q reading %q (caused by %q): %w", c.name, name, d.Cause, ErrUpstreamFailed)
	}
	return d.Value, nil
}

// DepNames returns the declared dependency names in sorted order.
func (c *Context) DepNames() []string {
	names := make([]string, 0, len(c.deps))
	for name := range c.deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Deps returns a copy of the dependency view.
func (c *Context) Deps() map[string]Dep {
	out := make(map[string]Dep, len(c.deps))
	for k, v := range c.deps {
		out[k] = v
	}
	return out
}

// DepAs is the typed accessor for a dependency result.
func DepAs[T any](c *Context, name string) (T, error) {
	var zero T
	raw, err := c.Dep(name)
	if err != nil {
		return zero, err
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("task %q reading %q: value has type %T, want %T", c.name, name, raw, zero)
	}
	return v, nil
}
