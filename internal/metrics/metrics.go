// Package metrics exports task lifecycle counters to Prometheus.
//
// A Recorder is an events.Sink; plug it into the executor next to the log
// sink. Each Recorder registers its collectors on the registry it is given,
// so several apps (or tests) in one process never collide.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vk/wavegrid/internal/events"
)

// Recorder turns lifecycle events into Prometheus metrics.
type Recorder struct {
	tasksTotal   *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
	inFlight     prometheus.Gauge
	runsTotal    *prometheus.CounterVec
}

// New registers the wavegrid collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavegrid_tasks_total",
			Help: "Tasks that reached a terminal state, by state",
		}, []string{"state"}),
		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wavegrid_task_duration_seconds",
			Help:    "Work function wall time, by terminal state",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"state"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavegrid_tasks_in_flight",
			Help: "Tasks currently running on a worker",
		}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavegrid_runs_total",
			Help: "Finished runs, by outcome",
		}, []string{"outcome"}),
	}
}

var _ events.Sink = (*Recorder)(nil)

// Emit implements events.Sink.
func (r *Recorder) Emit(_ context.Context, e events.Event) {
	switch e.Kind {
	case events.TaskStarted:
		r.inFlight.Inc()
	case events.TaskSucceeded, events.TaskFailed:
		r.inFlight.Dec()
		state := e.State.String()
		r.tasksTotal.WithLabelValues(state).Inc()
		r.taskDuration.WithLabelValues(state).Observe(e.Duration.Seconds())
	case events.TaskSkipped:
		r.tasksTotal.WithLabelValues(e.State.String()).Inc()
	case events.RunFinished:
		outcome := "completed"
		if e.Cancelled {
			outcome = "cancelled"
		}
		r.runsTotal.WithLabelValues(outcome).Inc()
	}
}
