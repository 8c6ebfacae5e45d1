package dag

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/task"
)

func noop(*task.Context) (any, error) { return nil, nil }

func mustRegister(t *testing.T, g *Graph, name string, prio int, deps ...string) {
	t.Helper()
	require.NoError(t, g.Register(name, deps, prio, noop))
}

func TestRegister_Duplicate(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", 0)

	err := g.Register("a", nil, 5, noop)
	require.Error(t, err)

	var dup *DuplicateTaskError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)
	assert.ErrorIs(t, err, ErrInvalidGraph)

	// The failed call must not have touched the original registration.
	got, ok := g.Task("a")
	require.True(t, ok)
	assert.Equal(t, 0, got.Priority)
	assert.Equal(t, 1, g.Len())
}

func TestRegister_InvalidTask(t *testing.T) {
	g := New()
	assert.ErrorIs(t, g.Register("", nil, 0, noop), ErrInvalidTask)
	assert.ErrorIs(t, g.Register("a", nil, 0, nil), ErrInvalidTask)
	assert.Zero(t, g.Len())
}

func TestRegister_AfterSeal(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", 0)
	g.Seal()
	g.Seal()

	err := g.Register("b", nil, 0, noop)
	assert.ErrorIs(t, err, ErrGraphSealed)
	assert.True(t, g.Sealed())
	assert.Equal(t, []string{"a"}, g.Names())
}

func TestRegister_CopiesDependencies(t *testing.T) {
	g := New()
	deps := []string{"x"}
	mustRegister(t, g, "a", 0, deps...)
	require.NoError(t, g.Register("b", deps, 0, noop))
	deps[0] = "mutated"

	got, err := g.Dependencies("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)
}

func TestValidate_UnknownDependency(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", 0)
	mustRegister(t, g, "b", 0, "a", "ghost")

	err := g.Validate()
	var unknown *UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "b", unknown.Task)
	assert.Equal(t, "ghost", unknown.Missing)
	assert.ErrorIs(t, err, ErrInvalidGraph)
	assert.NotErrorIs(t, err, ErrCycleDetected)
}

func TestValidate_ForwardReferenceIsFine(t *testing.T) {
	g := New()
	mustRegister(t, g, "agg", 0, "load")
	mustRegister(t, g, "load", 0)
	assert.NoError(t, g.Validate())
}

func TestValidate_Cycles(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T, g *Graph)
		want  []string
	}{
		{
			name: "self dependency",
			setup: func(t *testing.T, g *Graph) {
				mustRegister(t, g, "a", 0, "a")
			},
			want: []string{"a", "a"},
		},
		{
			name: "two task cycle",
			setup: func(t *testing.T, g *Graph) {
				mustRegister(t, g, "a", 0, "b")
				mustRegister(t, g, "b", 0, "a")
			},
			want: []string{"a", "b", "a"},
		},
		{
			name: "cycle behind an acyclic prefix",
			setup: func(t *testing.T, g *Graph) {
				mustRegister(t, g, "root", 0)
				mustRegister(t, g, "x", 0, "root", "y")
				mustRegister(t, g, "y", 0, "z")
				mustRegister(t, g, "z", 0, "x")
			},
			want: []string{"x", "y", "z", "x"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			tc.setup(t, g)

			err := g.Validate()
			var cycle *CycleDetectedError
			require.ErrorAs(t, err, &cycle)
			assert.ErrorIs(t, err, ErrCycleDetected)
			assert.ErrorIs(t, err, ErrInvalidGraph)
			if diff := cmp.Diff(tc.want, cycle.Cycle); diff != "" {
				t.Errorf("cycle mismatch (-want +got):\n%s", diff)
			}
			assert.Contains(t, err.Error(), "->")
		})
	}
}

func TestCycleDetectedError_Members(t *testing.T) {
	e := &CycleDetectedError{Cycle: []string{"a", "b", "a"}}
	assert.Equal(t, []string{"a", "b"}, e.Members())
	assert.Empty(t, (&CycleDetectedError{}).Members())
}

func TestValidate_DoesNotMutate(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", 0)
	mustRegister(t, g, "b", 0, "a")

	require.NoError(t, g.Validate())
	require.NoError(t, g.Validate())
	assert.False(t, g.Sealed())
	assert.Equal(t, []string{"a", "b"}, g.Names())
}

func TestDependents(t *testing.T) {
	g := New()
	mustRegister(t, g, "load", 0)
	mustRegister(t, g, "a", 0, "load")
	mustRegister(t, g, "b", 0, "load")
	mustRegister(t, g, "agg", 0, "a", "b")

	got, err := g.Dependents("load")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = g.Dependents("nope")
	assert.Error(t, err)
	_, err = g.Dependencies("nope")
	assert.Error(t, err)
	assert.Equal(t, -1, g.Index("nope"))
	assert.Equal(t, 3, g.Index("agg"))
}

func TestTopologicalOrder(t *testing.T) {
	g := New()
	mustRegister(t, g, "agg", 0, "low", "high")
	mustRegister(t, g, "low", 1, "load")
	mustRegister(t, g, "high", 9, "load")
	mustRegister(t, g, "load", 0)
	mustRegister(t, g, "lonely", 5)

	got, err := g.TopologicalOrder()
	require.NoError(t, err)

	want := []string{"lonely", "load", "high", "low", "agg"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrder_PropagatesValidation(t *testing.T) {
	g := New()
	mustRegister(t, g, "a", 0, "a")
	_, err := g.TopologicalOrder()
	assert.True(t, errors.Is(err, ErrCycleDetected))
}

func TestLess(t *testing.T) {
	g := New()
	mustRegister(t, g, "first", 0)
	mustRegister(t, g, "second", 0)
	mustRegister(t, g, "urgent", 10)

	assert.True(t, g.Less("urgent", "first"))
	assert.True(t, g.Less("first", "second"))
	assert.False(t, g.Less("second", "first"))
	assert.True(t, g.Less("first", "unknown"))
	assert.False(t, g.Less("unknown", "first"))
}

func TestRegister_Concurrent(t *testing.T) {
	g := New()
	var wg sync.WaitGroup
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_ = g.Register(n, nil, 0, noop)
		}(n)
	}
	wg.Wait()
	assert.Equal(t, len(names), g.Len())
	assert.NoError(t, g.Validate())
}
