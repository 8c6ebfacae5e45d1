package dag

import (
	"container/heap"
	"fmt"

	"github.com/vk/wavegrid/internal/task"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		tasks: make(map[string]*entry),
	}
}

// Register adds a task to the graph. It fails with *DuplicateTaskError if the
// name is taken, ErrGraphSealed once a run has started and ErrInvalidTask for
// an empty name or a nil work function. A failed call leaves the graph
// unchanged. Dependencies are not resolved until Validate.
func (g *Graph) Register(name string, dependencies []string, priority int, work task.WorkFunc) error {
	return g.Add(task.Task{Name: name, DependsOn: dependencies, Priority: priority, Work: work})
}

// Add registers a fully described task. See Register.
func (g *Graph) Add(t task.Task) error {
	if t.Name == "" {
		return fmt.Errorf("%w: task name is required", ErrInvalidTask)
	}
	if t.Work == nil {
		return fmt.Errorf("%w: task %q has nil work function", ErrInvalidTask, t.Name)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.sealed {
		return fmt.Errorf("registering %q: %w", t.Name, ErrGraphSealed)
	}
	if _, ok := g.tasks[t.Name]; ok {
		return &DuplicateTaskError{Name: t.Name}
	}

	deps := make([]string, len(t.DependsOn))
	copy(deps, t.DependsOn)
	t.DependsOn = deps

	g.tasks[t.Name] = &entry{task: t, index: len(g.order)}
	g.order = append(g.order, t.Name)
	return nil
}

// Seal freezes the graph. It is idempotent.
func (g *Graph) Seal() {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.sealed = true
}

// Sealed reports whether the graph has been frozen.
func (g *Graph) Sealed() bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.sealed
}

// Len returns the number of registered tasks.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// Task returns the task registered under name.
func (g *Graph) Task(name string) (task.Task, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	e, ok := g.tasks[name]
	if !ok {
		return task.Task{}, false
	}
	return e.task, true
}

// Index returns the registration index of name, or -1 if it is unknown.
func (g *Graph) Index(name string) int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	if e, ok := g.tasks[name]; ok {
		return e.index
	}
	return -1
}

// Names returns all task names in registration order.
func (g *Graph) Names() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the declared dependencies of name.
func (g *Graph) Dependencies(name string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	e, ok := g.tasks[name]
	if !ok {
		return nil, fmt.Errorf("task not found: %s", name)
	}
	out := make([]string, len(e.task.DependsOn))
	copy(out, e.task.DependsOn)
	return out, nil
}

// Dependents returns the names of tasks that declare name as a dependency,
// in registration order.
func (g *Graph) Dependents(name string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if _, ok := g.tasks[name]; !ok {
		return nil, fmt.Errorf("task not found: %s", name)
	}
	var out []string
	for _, id := range g.order {
		for _, dep := range g.tasks[id].task.DependsOn {
			if dep == name {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

// TopologicalOrder returns every task name such that each task follows all of
// its dependencies. Among tasks whose dependencies are already placed, higher
// priority comes first, then earlier registration. It fails with the same
// errors as Validate.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indeg := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	for _, name := range g.order {
		deps := uniq(g.tasks[name].task.DependsOn)
		indeg[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	ready := &byPriority{g: g}
	for _, name := range g.order {
		if indeg[name] == 0 {
			heap.Push(ready, name)
		}
	}

	out := make([]string, 0, len(g.order))
	for ready.Len() > 0 {
		name := heap.Pop(ready).(string)
		out = append(out, name)
		for _, next := range dependents[name] {
			indeg[next]--
			if indeg[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}
	return out, nil
}

// Less orders two task names by descending priority, then registration order.
// Unknown names sort last.
func (g *Graph) Less(a, b string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.lessLocked(a, b)
}

func (g *Graph) lessLocked(a, b string) bool {
	ea, okA := g.tasks[a]
	eb, okB := g.tasks[b]
	switch {
	case !okA:
		return false
	case !okB:
		return true
	case ea.task.Priority != eb.task.Priority:
		return ea.task.Priority > eb.task.Priority
	default:
		return ea.index < eb.index
	}
}

// byPriority is a heap of task names; the caller holds the graph's read lock.
type byPriority struct {
	g     *Graph
	names []string
}

func (h *byPriority) Len() int           { return len(h.names) }
func (h *byPriority) Less(i, j int) bool { return h.g.lessLocked(h.names[i], h.names[j]) }
func (h *byPriority) Swap(i, j int)      { h.names[i], h.names[j] = h.names[j], h.names[i] }
func (h *byPriority) Push(x any)         { h.names = append(h.names, x.(string)) }
func (h *byPriority) Pop() any {
	old := h.names
	n := len(old)
	x := old[n-1]
	h.names = old[:n-1]
	return x
}

func uniq(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
