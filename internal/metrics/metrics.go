package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapproval_http_requests_total",
			Help: "HTTP requests by method, route template and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eapproval_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Approval workflow
var (
	// RequestTransitionsTotal counts engine operations; result is "ok" or the error code.
	RequestTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapproval_request_transitions_total",
			Help: "Approval engine operations by action and result",
		},
		[]string{"action", "result"},
	)

	SideEffectFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapproval_side_effect_failures_total",
			Help: "Failed best-effort side effects (storage, render, notify, publish)",
		},
		[]string{"effect"},
	)
)

// Outbox
var (
	OutboxEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapproval_outbox_events_total",
			Help: "Outbox events handled by the relay worker",
		},
		[]string{"status"},
	)

	ConsumedEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eapproval_consumed_events_total",
			Help: "Lifecycle events consumed by event type and result",
		},
		[]string{"event_type", "result"},
	)
)
