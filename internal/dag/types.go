package dag

import (
	"sync"

	"github.com/vk/wavegrid/internal/task"
)

// Graph is a collection of tasks and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects every field below.
	mutex sync.RWMutex
	// tasks stores all registered tasks, keyed by name.
	tasks map[string]*entry
	// order lists task names in registration order.
	order []string
	// sealed is set once a run has started; the graph is read-only afterwards.
	sealed bool
}

// entry is a registered task plus its registration index, which is the
// deterministic tie-break used wherever priorities are equal.
type entry struct {
	task  task.Task
	index int
}
