package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsTotal,
		paymentsRevenueCents,
		gatewayRequests,
	)
}

var (
	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Payments by status (pending/waiting/confirming/finished/failed).",
		},
		[]string{"status"},
	)

	paymentsRevenueCents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_cents_total",
			Help: "Total value of finished payments in USD cents, by plan type.",
		},
		[]string{"plan_type"},
	)

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_gateway_requests_total",
			Help: "Outbound invoice creations by provider and result (ok|error).",
		},
		[]string{"provider", "result"},
	)
)

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(planType string, amountCents int64) {
	paymentsRevenueCents.WithLabelValues(norm(planType)).Add(float64(amountCents))
}

func IncGatewayRequest(provider string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	gatewayRequests.WithLabelValues(norm(provider), result).Inc()
}
