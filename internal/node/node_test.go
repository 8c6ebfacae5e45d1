package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "PENDING", Pending.String())
	assert.Equal(t, "SKIPPED", Skipped.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []State{Succeeded, Failed, Skipped} {
		assert.True(t, s.IsTerminal(), s.String())
	}
	for _, s := range []State{Pending, Ready, Running} {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]State]bool{
		{Pending, Ready}:     true,
		{Pending, Skipped}:   true,
		{Ready, Running}:     true,
		{Ready, Skipped}:     true,
		{Running, Succeeded}: true,
		{Running, Failed}:    true,
	}

	all := []State{Pending, Ready, Running, Succeeded, Failed, Skipped}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]State{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransitionError(t *testing.T) {
	err := &TransitionError{Task: "a", From: Succeeded, To: Running}
	assert.EqualError(t, err, `disallowed transition for "a": SUCCEEDED -> RUNNING`)
}
