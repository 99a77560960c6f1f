// Package metrics defines the Prometheus collectors for the CropSight service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ClassifierRequests counts classifier calls by result kind
	// (accepted, rejected, failed).
	ClassifierRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cropsight",
			Subsystem: "classifier",
			Name:      "requests_total",
			Help:      "Classifier calls by result kind.",
		},
		[]string{"kind"},
	)

	// ClassifierDuration observes classifier round-trip latency.
	ClassifierDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cropsight",
			Subsystem: "classifier",
			Name:      "request_duration_seconds",
			Help:      "Classifier call latency.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// DiagnosisBatches counts aggregated batches by whether a canonical
	// diagnosis was selected.
	DiagnosisBatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cropsight",
			Subsystem: "diagnosis",
			Name:      "batches_total",
			Help:      "Aggregated diagnosis batches by outcome.",
		},
		[]string{"outcome"},
	)

	// AdviceRequests counts advice agent calls by status (ok, error).
	AdviceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cropsight",
			Subsystem: "advice",
			Name:      "requests_total",
			Help:      "Advice agent calls by status.",
		},
		[]string{"status"},
	)

	// CasesRouted counts created cases by routing mode.
	CasesRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cropsight",
			Subsystem: "cases",
			Name:      "routed_total",
			Help:      "Created cases by routing mode.",
		},
		[]string{"mode"},
	)
)

// Register adds all collectors to the given registerer.
func Register(r prometheus.Registerer) {
	r.MustRegister(
		ClassifierRequests,
		ClassifierDuration,
		DiagnosisBatches,
		AdviceRequests,
		CasesRouted,
	)
}
