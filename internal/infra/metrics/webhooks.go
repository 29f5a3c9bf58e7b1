package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		webhookEventsTotal,
		webhookSignatureFailures,
		webhookUnreconcilable,
	)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook events by type and outcome (processed/ignored/error).",
		},
		[]string{"type", "outcome"},
	)

	webhookSignatureFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_signature_failures_total",
			Help: "Webhook deliveries rejected for a bad or missing signature.",
		},
	)

	webhookUnreconcilable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_unreconcilable_total",
			Help: "Verified events acknowledged without writes for missing metadata.",
		},
	)
)

func IncWebhookEvent(eventType, outcome string) {
	webhookEventsTotal.WithLabelValues(norm(eventType), norm(outcome)).Inc()
}

func IncWebhookSignatureFailure() { webhookSignatureFailures.Inc() }

func IncWebhookUnreconcilable() { webhookUnreconcilable.Inc() }
