package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(predictionsGenerated)
}

var predictionsGenerated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "predictions_generated_total",
		Help: "Generated prediction batches by type and mode (random|sequence).",
	},
	[]string{"type", "mode"},
)

func IncPredictionGenerated(typ, mode string) {
	predictionsGenerated.WithLabelValues(norm(typ), norm(mode)).Inc()
}
