// Package metrics exposes Prometheus instruments for the swipe service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipe_phase_transitions_total",
			Help: "Controller phase transitions",
		},
		[]string{"from", "to"},
	)

	Commits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipe_commits_total",
			Help: "Swipe actions reported to the recommender, by outcome",
		},
		[]string{"action", "outcome"}, // outcome: success, failure
	)

	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipe_batch_fetches_total",
			Help: "Batch fetches, by outcome",
		},
		[]string{"outcome"}, // outcome: items, empty, failure
	)

	FetchedItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "swipe_batch_size",
			Help:    "Items per fetched batch",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	SummaryNavigations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swipe_summary_navigations_total",
			Help: "Sessions closed with a super swipe",
		},
	)

	RemoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swipe_remote_request_duration_seconds",
			Help:    "Latency of recommender calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swipe_remote_circuit_state",
			Help: "Recommender circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swipe_websocket_clients",
			Help: "Connected renderer clients",
		},
	)
)

func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
