package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeApplied   = "applied"
	outcomeMalformed = "malformed"
	outcomeRejected  = "rejected"
)

var (
	restockMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "restock_consumer",
			Name:      "messages_total",
			Help:      "Restock messages by outcome: applied, malformed or rejected by the ledger",
		},
		[]string{"outcome"},
	)

	restockUnits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "restock_consumer",
			Name:      "units_total",
			Help:      "Units of stock added back through restock messages",
		},
	)

	restocksDLQ = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "restock_consumer",
			Name:      "dlq_writes_total",
			Help:      "Writes to the restock dead letter topic by result",
		},
		[]string{"result"},
	)

	commitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_service",
			Subsystem: "restock_consumer",
			Name:      "commit_errors_total",
			Help:      "Offsets that failed to commit",
		},
	)

	restockDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "order_service",
			Subsystem: "restock_consumer",
			Name:      "processing_duration_seconds",
			Help:      "Time spent applying one restock message",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// RegisterMetrics registers the consumer collectors. Call once per process.
func RegisterMetrics() {
	prometheus.MustRegister(
		restockMessages,
		restockUnits,
		restocksDLQ,
		commitErrors,
		restockDuration,
	)
}
