package pipeline

import (
	"errors"
	"fmt"

	"github.com/vk/wavegrid/internal/dag"
	"github.com/vk/wavegrid/internal/task"
)

// ErrIncompletePipeline is returned by Build when a required stage is missing.
var ErrIncompletePipeline = errors.New("incomplete pipeline")

// Builder assembles a loader -> analyses -> aggregator graph. The first error
// is kept and returned by Build; later calls become no-ops.
type Builder struct {
	graph      *dag.Graph
	loader     string
	analyses   []string
	aggregator string
	err        error
}

// NewBuilder starts an empty pipeline.
func NewBuilder() *Builder {
	return &Builder{graph: dag.New()}
}

// Loader registers the single root task every analysis depends on.
func (b *Builder) Loader(name string, work task.WorkFunc) *Builder {
	if b.err != nil {
		return b
	}
	if b.loader != "" {
		b.err = fmt.Errorf("loader already set to %q", b.loader)
		return b
	}
	if b.register(name, nil, 0, work) {
		b.loader = name
	}
	return b
}

// Analysis registers a task that depends only on the loader.
func (b *Builder) Analysis(name string, priority int, work task.WorkFunc) *Builder {
	if b.err != nil {
		return b
	}
	if b.loader == "" {
		b.err = fmt.Errorf("analysis %q: %w: loader must be added first", name, ErrIncompletePipeline)
		return b
	}
	if b.aggregator != "" {
		b.err = fmt.Errorf("analysis %q added after aggregator %q", name, b.aggregator)
		return b
	}
	if b.register(name, []string{b.loader}, priority, work) {
		b.analyses = append(b.analyses, name)
	}
	return b
}

// Aggregator registers the task that depends on every analysis.
func (b *Builder) Aggregator(name string, work task.WorkFunc) *Builder {
	if b.err != nil {
		return b
	}
	if b.aggregator != "" {
		b.err = fmt.Errorf("aggregator already set to %q", b.aggregator)
		return b
	}
	if len(b.analyses) == 0 {
		b.err = fmt.Errorf("aggregator %q: %w: no analyses", name, ErrIncompletePipeline)
		return b
	}
	if b.register(name, b.analyses, 0, work) {
		b.aggregator = name
	}
	return b
}

// Task registers an arbitrary extra task.
func (b *Builder) Task(name string, deps []string, priority int, work task.WorkFunc) *Builder {
	if b.err != nil {
		return b
	}
	b.register(name, deps, priority, work)
	return b
}

// Build validates and returns the graph.
func (b *Builder) Build() (*dag.Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.loader == "" {
		return nil, fmt.Errorf("%w: no loader", ErrIncompletePipeline)
	}
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	return b.graph, nil
}

func (b *Builder) register(name string, deps []string, priority int, work task.WorkFunc) bool {
	if err := b.graph.Register(name, deps, priority, work); err != nil {
		b.err = err
		return false
	}
	return true
}
