package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"net/http"
)

var (
	deliveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sevasetu",
			Name:      "mail_delivery_attempts_total",
			Help:      "Total mail delivery attempts by provider and result.",
		},
		[]string{"provider", "result"},
	)
	deliveryAttemptDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sevasetu",
			Name:      "mail_delivery_attempt_duration_seconds",
			Help:      "Provider send attempt duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
	deliveryOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sevasetu",
			Name:      "mail_delivery_outcomes_total",
			Help:      "Final delivery outcomes: delivered, captured, exhausted.",
		},
		[]string{"outcome"},
	)
	mailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sevasetu",
			Name:      "mail_queue_depth",
			Help:      "Messages currently waiting in the deferred mail queue.",
		},
	)
)

// ObserveDeliveryAttempt records one provider attempt
func ObserveDeliveryAttempt(provider string, success bool, elapsed time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	deliveryAttemptsTotal.WithLabelValues(provider, result).Inc()
	deliveryAttemptDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveDeliveryOutcome records the final outcome of a delivery sequence
func ObserveDeliveryOutcome(outcome string) {
	deliveryOutcomesTotal.WithLabelValues(outcome).Inc()
}

// SetMailQueueDepth updates the deferred queue depth gauge
func SetMailQueueDepth(depth int) {
	mailQueueDepth.Set(float64(depth))
}

// Handler exposes the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
