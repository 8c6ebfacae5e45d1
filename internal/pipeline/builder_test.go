package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/dag"
	"github.com/vk/wavegrid/internal/executor"
	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/task"
)

func constant(v any) task.WorkFunc {
	return func(*task.Context) (any, error) { return v, nil }
}

func TestBuilder_Shape(t *testing.T) {
	g, err := NewBuilder().
		Loader("load", constant(10)).
		Analysis("a", 0, constant(1)).
		Analysis("b", 5, constant(2)).
		Aggregator("agg", constant(3)).
		Task("extra", []string{"agg"}, 0, constant(4)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"load", "a", "b", "agg", "extra"}, g.Names())
	deps, _ := g.Dependencies("a")
	assert.Equal(t, []string{"load"}, deps)
	deps, _ = g.Dependencies("agg")
	assert.Equal(t, []string{"a", "b"}, deps)
	b, _ := g.Task("b")
	assert.Equal(t, 5, b.Priority)
}

func TestBuilder_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		build func() *Builder
		check func(t *testing.T, err error)
	}{
		{
			name:  "no loader",
			build: func() *Builder { return NewBuilder() },
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrIncompletePipeline) },
		},
		{
			name: "analysis before loader",
			build: func() *Builder {
				return NewBuilder().Analysis("a", 0, constant(1)).Loader("load", constant(1))
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrIncompletePipeline) },
		},
		{
			name: "aggregator without analyses",
			build: func() *Builder {
				return NewBuilder().Loader("load", constant(1)).Aggregator("agg", constant(1))
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrIncompletePipeline) },
		},
		{
			name: "duplicate name is sticky",
			build: func() *Builder {
				return NewBuilder().
					Loader("load", constant(1)).
					Analysis("load", 0, constant(1)).
					Analysis("fine", 0, constant(1))
			},
			check: func(t *testing.T, err error) {
				var dup *dag.DuplicateTaskError
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "load", dup.Name)
			},
		},
		{
			name: "second loader",
			build: func() *Builder {
				return NewBuilder().Loader("l1", constant(1)).Loader("l2", constant(1))
			},
			check: func(t *testing.T, err error) { assert.ErrorContains(t, err, "loader already set") },
		},
		{
			name: "analysis after aggregator",
			build: func() *Builder {
				return NewBuilder().
					Loader("load", constant(1)).
					Analysis("a", 0, constant(1)).
					Aggregator("agg", constant(1)).
					Analysis("late", 0, constant(1))
			},
			check: func(t *testing.T, err error) { assert.ErrorContains(t, err, "after aggregator") },
		},
		{
			name: "extra task with unknown dependency",
			build: func() *Builder {
				return NewBuilder().Loader("load", constant(1)).Task("x", []string{"ghost"}, 0, constant(1))
			},
			check: func(t *testing.T, err error) {
				var unknown *dag.UnknownDependencyError
				assert.ErrorAs(t, err, &unknown)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := tc.build().Build()
			assert.Nil(t, g)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestBuilder_RunsLoaderAnalysesAggregator(t *testing.T) {
	g, err := NewBuilder().
		Loader("load", constant(10)).
		Analysis("a", 0, func(c *task.Context) (any, error) {
			n, err := task.DepAs[int](c, "load")
			return n * 2, err
		}).
		Analysis("b", 0, func(*task.Context) (any, error) {
			return nil, errors.New("analysis b failed")
		}).
		Aggregator("agg", constant("never")).
		Build()
	require.NoError(t, err)

	e, err := executor.New(g, executor.WithWorkers(2))
	require.NoError(t, err)
	state, err := e.Run(context.Background())
	require.NoError(t, err)

	got := map[string]string{}
	for name, res := range state.Results() {
		got[name] = res.String()
	}
	assert.Equal(t, map[string]string{
		"load": "SUCCEEDED(10)",
		"a":    "SUCCEEDED(20)",
		"b":    "FAILED(analysis b failed)",
		"agg":  `SKIPPED(caused_by="b")`,
	}, got)
	assert.Equal(t, node.Skipped, state.State("agg"))
}
