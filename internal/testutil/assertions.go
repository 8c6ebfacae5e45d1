package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/node"
	"github.com/vk/wavegrid/internal/task"
)

// RequireState asserts the terminal state of a task and returns its result.
func RequireState(t *testing.T, result *HarnessResult, name string, want node.State) task.Result {
	t.Helper()
	require.NoError(t, result.Err, "run returned an error")
	require.NotNil(t, result.State)

	got := result.State.State(name)
	require.Equal(t, want, got, "task %q", name)

	res, ok := result.State.Get(name)
	require.True(t, ok, "task %q has no recorded result", name)
	return res
}

// RequireSkippedBy asserts that name was skipped because of cause.
func RequireSkippedBy(t *testing.T, result *HarnessResult, name, cause string) {
	t.Helper()
	res := RequireState(t, result, name, node.Skipped)
	require.Equal(t, cause, res.CausedBy, "cause of %q", name)
}
