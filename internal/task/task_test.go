package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/node"
)

func TestContext_Dep(t *testing.T) {
	c := NewContext(context.Background(), "agg", map[string]Dep{
		"a": {Value: 20},
		"b": {UpstreamFailed: true, Cause: "b"},
	})
	assert.Equal(t, "agg", c.Task())
	assert.Equal(t, []string{"a", "b"}, c.DepNames())

	v, err := c.Dep("a")
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = c.Dep("b")
	assert.ErrorIs(t, err, ErrUpstreamFailed)
	assert.ErrorContains(t, err, `caused by "b"`)

	_, err = c.Dep("zzz")
	assert.ErrorIs(t, err, ErrUndeclaredDependency)
}

func TestDepAs(t *testing.T) {
	c := NewContext(context.Background(), "x", map[string]Dep{"n": {Value: 10}, "s": {Value: "str"}})

	n, err := DepAs[int](c, "n")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	_, err = DepAs[int](c, "s")
	assert.ErrorContains(t, err, "value has type string, want int")

	_, err = DepAs[int](c, "missing")
	assert.ErrorIs(t, err, ErrUndeclaredDependency)
}

func TestContext_DepsIsCopy(t *testing.T) {
	c := NewContext(context.Background(), "x", map[string]Dep{"a": {Value: 1}})
	view := c.Deps()
	view["a"] = Dep{Value: 2}

	v, err := c.Dep("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestResult(t *testing.T) {
	ok := Succeeded(10)
	assert.True(t, ok.OK())
	assert.Equal(t, node.Succeeded, ok.State)
	assert.Equal(t, "SUCCEEDED(10)", ok.String())

	failed := Failed(errors.New("boom"))
	assert.False(t, failed.OK())
	assert.Equal(t, "FAILED(boom)", failed.String())

	skipped := SkippedBy("b")
	assert.Equal(t, node.Skipped, skipped.State)
	assert.Equal(t, `SKIPPED(caused_by="b")`, skipped.String())
	assert.Zero(t, skipped.Duration())

	start := time.Now()
	timed := Result{State: node.Succeeded, StartedAt: start, FinishedAt: start.Add(time.Second)}
	assert.Equal(t, time.Second, timed.Duration())
}
