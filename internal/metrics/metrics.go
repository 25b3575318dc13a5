// Package metrics holds the Prometheus instrumentation for provider calls,
// local persistence and normalization. The CLI is short lived, so metrics
// are written to a node-exporter textfile on exit instead of being scraped.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider metrics
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviebrowser_provider_request_duration_seconds",
			Help:    "Duration of data provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_provider_requests_total",
			Help: "Total number of data provider requests by outcome",
		},
		[]string{"provider", "operation", "outcome"}, // "ok", "error", "timeout", "canceled", "not_found", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviebrowser_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Normalization metrics
	NormalizationIssues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_normalization_issues_total",
			Help: "Total number of data-quality issues found while normalizing provider records",
		},
		[]string{"source", "field"},
	)

	// Persistence metrics
	PersistenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_persistence_writes_total",
			Help: "Total number of persisted key writes by outcome",
		},
		[]string{"key", "outcome"}, // "ok", "error", "superseded"
	)

	PersistenceReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_persistence_reads_total",
			Help: "Total number of persisted key reads by outcome",
		},
		[]string{"key", "outcome"}, // "ok", "missing", "malformed", "error"
	)

	// Browse metrics
	StaleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviebrowser_stale_responses_total",
			Help: "Total number of responses discarded because a newer request superseded them",
		},
		[]string{"query"},
	)
)

// WriteTextfile writes every registered metric to path in the Prometheus
// text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
