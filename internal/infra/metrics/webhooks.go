package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		IPNRequests,
		IPNDuration,
	)
}

var (
	// Count of IPN deliveries grouped by result and bounded reason.
	// result: ok|fail
	// reason (fail only): bad_signature|bad_json|order_not_found|store_error|unknown
	IPNRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ipn_requests_total",
			Help: "Count of /api/webhooks/nowpayments deliveries by result and reason.",
		},
		[]string{"result", "reason"},
	)

	// Latency of the IPN handler grouped by result.
	IPNDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ipn_duration_seconds",
			Help:    "Duration of the IPN handler in seconds.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"result"},
	)
)
