package dag

// Validate checks that every dependency resolves to a registered task and that
// the graph is acyclic. It never mutates the graph and may be called any
// number of times.
func (g *Graph) Validate() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	for _, name := range g.order {
		for _, dep := range g.tasks[name].task.DependsOn {
			if _, ok := g.tasks[dep]; !ok {
				return &UnknownDependencyError{Task: name, Missing: dep}
			}
		}
	}

	if cycle := g.findCycleLocked(); cycle != nil {
		return &CycleDetectedError{Cycle: cycle}
	}
	return nil
}

const (
	white = iota // unvisited
	gray         // on the current visit stack
	black        // fully explored, not on any cycle
)

// frame is one level of the explicit DFS stack: a task and the position of
// the next dependency to explore.
type frame struct {
	name string
	next int
}

// findCycleLocked runs an iterative depth-first search along dependency edges,
// starting from each task in registration order. Reaching a gray task means
// the path from that task to the top of the stack closes a cycle, which is
// returned. The caller holds at least the read lock.
func (g *Graph) findCycleLocked() []string {
	color := make(map[string]int, len(g.order))

	for _, root := range g.order {
		if color[root] != white {
			continue
		}

		stack := []frame{{name: root}}
		color[root] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.tasks[top.name].task.DependsOn

			if top.next >= len(deps) {
				color[top.name] = black
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++

			switch color[dep] {
			case white:
				color[dep] = gray
				stack = append(stack, frame{name: dep})
			case gray:
				return cycleFromStack(stack, dep)
			}
		}
	}
	return nil
}

// cycleFromStack extracts the stack suffix starting at closing and appends
// closing again so the path reads as a loop.
func cycleFromStack(stack []frame, closing string) []string {
	start := 0
	for i, f := range stack {
		if f.name == closing {
			start = i
			break
		}
	}
	cycle := make([]string, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		cycle = append(cycle, f.name)
	}
	return append(cycle, closing)
}
