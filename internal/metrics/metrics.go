// Package metrics exposes Prometheus collectors for store dispatches,
// mutation calls, persistence writes and emitted notifications.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "academy"

// Recorder implements the recorder interfaces of the core and persistence
// packages on top of Prometheus collectors.
type Recorder struct {
	dispatches    *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	mutationTime  *prometheus.HistogramVec
	writes        *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// New builds a recorder and registers its collectors on reg. A nil reg
// leaves the collectors unregistered.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Actions applied by the store, by collection and kind.",
		}, []string{"collection", "op"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Mutation API calls by operation and outcome.",
		}, []string{"operation", "status"}),
		mutationTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mutation_duration_seconds",
			Help:      "Time spent in Mutation API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_writes_total",
			Help:      "Values written to the kv substrate, by key.",
		}, []string{"key"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_skipped_total",
			Help:      "Snapshot writes skipped by the persistence guard, by reason.",
		}, []string{"reason"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Notifications generated from payment transitions, by recipient kind.",
		}, []string{"recipient"}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range r.collectors() {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) collectors() []prometheus.Collector {
	return []prometheus.Collector{r.dispatches, r.mutations, r.mutationTime, r.writes, r.skipped, r.notifications}
}

// Dispatched counts one applied action.
func (r *Recorder) Dispatched(collection, op string) {
	r.dispatches.WithLabelValues(collection, op).Inc()
}

// Observe records a Mutation API call outcome.
func (r *Recorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.mutations.WithLabelValues(operation, status).Inc()
	r.mutationTime.WithLabelValues(operation).Observe(duration.Seconds())
}

// Written counts one value written to the substrate.
func (r *Recorder) Written(key string) {
	r.writes.WithLabelValues(key).Inc()
}

// Skipped counts one snapshot write the guard refused.
func (r *Recorder) Skipped(reason string) {
	r.skipped.WithLabelValues(reason).Inc()
}

// NotificationEmitted counts one generated notification.
func (r *Recorder) NotificationEmitted(recipient string) {
	r.notifications.WithLabelValues(recipient).Inc()
}
