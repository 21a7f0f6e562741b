package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsActivated,
		subscriptionsExpired,
	)
}

var (
	subscriptionsActivated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_activated_total",
			Help: "Subscription activations by plan type and source (ipn|admin).",
		},
		[]string{"plan_type", "source"},
	)

	subscriptionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions deactivated by the expiry worker.",
		},
	)
)

func IncSubscriptionActivated(planType, source string) {
	subscriptionsActivated.WithLabelValues(norm(planType), norm(source)).Inc()
}

func IncSubscriptionsExpired(n int64) {
	subscriptionsExpired.Add(float64(n))
}
