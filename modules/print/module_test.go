package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/wavegrid/internal/registry"
	"github.com/vk/wavegrid/internal/task"
)

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	r := registry.New()
	r.Load(&Module{Out: &buf})

	runner, ok := r.Lookup("print")
	require.True(t, ok)

	work, err := runner.Bind(cty.ObjectVal(map[string]cty.Value{
		"message": cty.StringVal("hello"),
		"values": cty.ObjectVal(map[string]cty.Value{
			"b": cty.StringVal("2"),
			"a": cty.StringVal("1"),
		}),
	}))
	require.NoError(t, err)

	ctx := task.NewContext(context.Background(), "report", map[string]task.Dep{
		"load": {Value: 10},
	})
	out, err := work(ctx)
	require.NoError(t, err)

	want := "[report] hello\n" +
		"      a = \"1\"\n" +
		"      b = \"2\"\n" +
		"      load -> 10\n"
	assert.Equal(t, want, out)
	assert.Equal(t, want, buf.String())
}

func TestPrint_UpstreamFailure(t *testing.T) {
	var buf bytes.Buffer
	m := &Module{Out: &buf}
	ctx := task.NewContext(context.Background(), "report", map[string]task.Dep{
		"b": {UpstreamFailed: true, Cause: "b"},
	})

	_, err := m.Run(ctx, &Input{})
	assert.ErrorIs(t, err, task.ErrUpstreamFailed)
	assert.Empty(t, buf.String())
}
