package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccountOperations counts lifecycle operations by name and result.
	AccountOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accountd_account_operations_total",
			Help: "Total number of account lifecycle operations",
		},
		[]string{"operation", "result"},
	)

	// EmailsSent records notification dispatch outcomes (sent|failed|disabled).
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accountd_emails_total",
			Help: "Total number of outbound notification e-mails",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "accountd_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
