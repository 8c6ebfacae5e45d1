package executor

import (
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/vk/wavegrid/internal/events"
	"github.com/vk/wavegrid/internal/nodestore"
)

// MaxWorkers bounds the worker pool size.
const MaxWorkers = 1024

// DefaultWorkers is the pool size used when WithWorkers is not given: the
// number of logical CPUs.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Option configures an Executor.
type Option func(*Executor) error

// WithWorkers sets the worker pool size. It must be in [1, MaxWorkers].
func WithWorkers(n int) Option {
	return func(e *Executor) error {
		if n < 1 || n > MaxWorkers {
			return fmt.Errorf("%w: workers must be between 1 and %d, got %d", ErrInvalidOption, MaxWorkers, n)
		}
		e.workers = n
		return nil
	}
}

// WithTaskTimeout bounds each work function's context. Zero disables it.
func WithTaskTimeout(d time.Duration) Option {
	return func(e *Executor) error {
		if d < 0 {
			return fmt.Errorf("%w: task timeout must not be negative, got %s", ErrInvalidOption, d)
		}
		e.taskTimeout = d
		return nil
	}
}

// WithSink sets the destination for lifecycle events.
func WithSink(s events.Sink) Option {
	return func(e *Executor) error {
		if s == nil {
			return fmt.Errorf("%w: nil event sink", ErrInvalidOption)
		}
		e.sink = s
		return nil
	}
}

// WithTracer sets the tracer used for per-task spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Executor) error {
		if t == nil {
			return fmt.Errorf("%w: nil tracer", ErrInvalidOption)
		}
		e.tracer = t
		return nil
	}
}

// WithStore sets the factory that creates each run's result store.
func WithStore(newStore func() nodestore.Store) Option {
	return func(e *Executor) error {
		if newStore == nil {
			return fmt.Errorf("%w: nil store factory", ErrInvalidOption)
		}
		e.newStore = newStore
		return nil
	}
}
