// Package metrics defines the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session metrics
var (
	// SessionsCreatedTotal counts successfully created sessions.
	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_created_total",
			Help: "Total study sessions created",
		},
	)

	// SessionJoinsTotal counts join attempts by outcome (admitted/already_member/full/not_found).
	SessionJoinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_joins_total",
			Help: "Total session join attempts by outcome",
		},
		[]string{"outcome"},
	)

	// SessionStateTransitionsTotal counts lifecycle transitions by target state.
	SessionStateTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_state_transitions_total",
			Help: "Total session state transitions by target state",
		},
		[]string{"state"},
	)

	// JoinCodeRetriesTotal counts join-code regenerations due to collisions.
	JoinCodeRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "join_code_retries_total",
			Help: "Total join code regenerations due to collisions",
		},
	)
)

// AI metrics
var (
	// AIRequestDuration tracks generative API call latency by operation.
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Generative API request duration in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	// AIRequestFailuresTotal counts failed generative API calls by operation and reason.
	AIRequestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_request_failures_total",
			Help: "Total failed generative API calls by operation and reason",
		},
		[]string{"operation", "reason"},
	)
)

// Live feed metrics
var (
	// LiveClientsConnected tracks currently connected websocket clients.
	LiveClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_clients_connected",
			Help: "Currently connected live-view websocket clients",
		},
	)

	// LiveTopicsActive tracks topics with at least one subscriber.
	LiveTopicsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_topics_active",
			Help: "Topics with at least one websocket subscriber",
		},
	)

	// LiveSnapshotFailuresTotal counts snapshot loads that failed after a change event.
	LiveSnapshotFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_snapshot_failures_total",
			Help: "Snapshot loads that failed after a change event, by topic kind",
		},
		[]string{"kind"},
	)

	// LiveSlowClientsEvicted counts clients disconnected for not keeping up.
	LiveSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_slow_clients_evicted_total",
			Help: "Clients disconnected because their send buffer stayed full",
		},
	)
)
