package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConnectionMetrics records connection lifecycle transitions and dispatch outcomes.
type ConnectionMetrics struct {
	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
	dispatch    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewConnectionMetrics registers the connection metrics on the provided registerer.
func NewConnectionMetrics(reg prometheus.Registerer) *ConnectionMetrics {
	if reg == nil {
		return &ConnectionMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_transitions",
		Help: "Connection state transitions by kind.",
	}, []string{"transition"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_conflicts",
		Help: "Connection operations that lost a concurrent race.",
	}, []string{"operation"})
	dispatch := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_dispatch",
		Help: "Notification dispatch attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "connection_operation_seconds",
		Help:    "Duration of connection operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(transitions, conflicts, dispatch, duration)
	return &ConnectionMetrics{
		transitions: transitions,
		conflicts:   conflicts,
		dispatch:    dispatch,
		duration:    duration,
	}
}

// IncTransition increments the counter for the named transition.
func (c *ConnectionMetrics) IncTransition(transition string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(transition)).Inc()
}

// IncConflict increments the conflict counter for the named operation.
func (c *ConnectionMetrics) IncConflict(operation string) {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncDispatchSuccess increments the dispatch counter with a success outcome.
func (c *ConnectionMetrics) IncDispatchSuccess() {
	if c == nil || c.dispatch == nil {
		return
	}
	c.dispatch.WithLabelValues("success").Inc()
}

// IncDispatchFailure increments the dispatch counter with a failure outcome.
func (c *ConnectionMetrics) IncDispatchFailure() {
	if c == nil || c.dispatch == nil {
		return
	}
	c.dispatch.WithLabelValues("failure").Inc()
}

// ObserveDuration records the duration for the named operation.
func (c *ConnectionMetrics) ObserveDuration(operation string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
