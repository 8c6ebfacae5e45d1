package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/wavegrid/internal/events"
	"github.com/vk/wavegrid/internal/node"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	ctx := context.Background()

	emit := func(kind events.Kind, state node.State) {
		r.Emit(ctx, events.Event{Kind: kind, State: state, Duration: 20 * time.Millisecond})
	}

	emit(events.TaskStarted, node.Running)
	emit(events.TaskStarted, node.Running)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.inFlight))

	emit(events.TaskSucceeded, node.Succeeded)
	emit(events.TaskFailed, node.Failed)
	emit(events.TaskSkipped, node.Skipped)
	emit(events.TaskReady, node.Ready)
	r.Emit(ctx, events.Event{Kind: events.RunFinished, Cancelled: true})

	assert.Equal(t, 0.0, testutil.ToFloat64(r.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tasksTotal.WithLabelValues("SUCCEEDED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tasksTotal.WithLabelValues("FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tasksTotal.WithLabelValues("SKIPPED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("cancelled")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.taskDuration))
}

func TestRecorder_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)
	r.Emit(context.Background(), events.Event{Kind: events.RunFinished})

	expected := `
# HELP wavegrid_runs_total Finished runs, by outcome
# TYPE wavegrid_runs_total counter
wavegrid_runs_total{outcome="completed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "wavegrid_runs_total"))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
