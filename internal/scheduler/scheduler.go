package scheduler

import (
	"fmt"
	"sort"

	"github.com/vk/wavegrid/internal/dag"
	"github.com/vk/wavegrid/internal/node"
)

// Tracker computes ready sets for one validated graph.
type Tracker struct {
	graph *dag.Graph
	// topo is the graph in topological order; walking it guarantees every
	// dependency is classified before its dependents.
	topo []string
	deps map[string][]string
}

// NewTracker prepares a tracker for g. It fails with the graph's validation
// error if g is not a DAG.
func NewTracker(g *dag.Graph) (*Tracker, error) {
	topo, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	deps := make(map[string][]string, len(topo))
	for _, name := range topo {
		d, err := g.Dependencies(name)
		if err != nil {
			return nil, fmt.Errorf("building tracker: %w", err)
		}
		deps[name] = d
	}
	return &Tracker{graph: g, topo: topo, deps: deps}, nil
}

// Next returns the wave implied by snapshot. It does not modify snapshot.
//
// A Pending or Ready task is skipped when any dependency is Failed or
// Skipped, including dependencies this same call has just decided to skip;
// the reported cause is the root failed task, taken from the first such
// dependency in declaration order.
func (t *Tracker) Next(snapshot Snapshot) Wave {
	wave := Wave{Skipped: map[string]string{}}
	overlay := make(map[string]Status)

	lookup := func(name string) Status {
		if st, ok := overlay[name]; ok {
			return st
		}
		if st, ok := snapshot[name]; ok {
			return st
		}
		return Status{State: node.Pending}
	}

	for _, name := range t.topo {
		st := snapshot.state(name)
		if st != node.Pending && st != node.Ready {
			continue
		}

		ready := true
		cause := ""
	deps:
		for _, dep := range t.deps[name] {
			ds := lookup(dep)
			switch ds.State {
			case node.Succeeded:
			case node.Failed:
				cause = dep
			case node.Skipped:
				cause = ds.CausedBy
				if cause == "" {
					cause = dep
				}
			default:
				ready = false
			}
			if cause != "" {
				break deps
			}
		}

		switch {
		case cause != "":
			wave.Skipped[name] = cause
			overlay[name] = Status{State: node.Skipped, CausedBy: cause}
		case ready:
			wave.Ready = append(wave.Ready, name)
		}
	}

	sort.SliceStable(wave.Ready, func(i, j int) bool {
		return t.graph.Less(wave.Ready[i], wave.Ready[j])
	})
	return wave
}

// Remaining returns, in registration order, every task that is not terminal
// in snapshot.
func (t *Tracker) Remaining(snapshot Snapshot) []string {
	var out []string
	for _, name := range t.graph.Names() {
		if !snapshot.state(name).IsTerminal() {
			out = append(out, name)
		}
	}
	return out
}
