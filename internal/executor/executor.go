package executor

import (
	"errors"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vk/wavegrid/internal/dag"
	"github.com/vk/wavegrid/internal/events"
	"github.com/vk/wavegrid/internal/inmemorystore"
	"github.com/vk/wavegrid/internal/nodestore"
)

// Executor runs one task graph. It is safe to call Run repeatedly, but not
// concurrently.
type Executor struct {
	graph       *dag.Graph
	workers     int
	taskTimeout time.Duration
	sink        events.Sink
	tracer      trace.Tracer
	newStore    func() nodestore.Store

	running atomic.Bool
}

// New creates an Executor for g. Options are applied in order; the first
// invalid one aborts construction.
func New(g *dag.Graph, opts ...Option) (*Executor, error) {
	if g == nil {
		return nil, errors.New("executor: nil graph")
	}
	e := &Executor{
		graph:    g,
		workers:  DefaultWorkers(),
		sink:     events.Nop,
		tracer:   noop.NewTracerProvider().Tracer("wavegrid/executor"),
		newStore: func() nodestore.Store { return inmemorystore.New() },
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Workers returns the configured pool size.
func (e *Executor) Workers() int { return e.workers }

// Graph returns the graph this executor runs.
func (e *Executor) Graph() *dag.Graph { return e.graph }
