package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records the commerce pipeline's operational counters.
type StorefrontMetrics struct {
	checkoutSessions *prometheus.CounterVec
	webhookEvents    *prometheus.CounterVec
	orders           *prometheus.CounterVec
	webhookDuration  *prometheus.HistogramVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer. A nil registerer yields a no-op recorder, which keeps tests
// and optional wiring simple.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	checkoutSessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Hosted checkout sessions opened with the payment processor.",
	}, []string{"result"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Inbound payment webhook deliveries by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_orders_total",
		Help: "Fulfillment provider order submissions by status.",
	}, []string{"status"})
	webhookDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_pipeline_duration_seconds",
		Help:    "Duration of the webhook fulfillment pipeline in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(checkoutSessions, webhookEvents, orders, webhookDuration)
	return &StorefrontMetrics{
		checkoutSessions: checkoutSessions,
		webhookEvents:    webhookEvents,
		orders:           orders,
		webhookDuration:  webhookDuration,
	}
}

// IncCheckoutSession counts one checkout initiation with the given result.
func (m *StorefrontMetrics) IncCheckoutSession(result string) {
	if m == nil || m.checkoutSessions == nil {
		return
	}
	m.checkoutSessions.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncWebhookEvent counts one webhook delivery with the given outcome.
func (m *StorefrontMetrics) IncWebhookEvent(outcome string) {
	if m == nil || m.webhookEvents == nil {
		return
	}
	m.webhookEvents.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncOrder counts one fulfillment order submission by status.
func (m *StorefrontMetrics) IncOrder(status string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveWebhookDuration records how long a webhook pipeline run took.
func (m *StorefrontMetrics) ObserveWebhookDuration(outcome string, duration time.Duration) {
	if m == nil || m.webhookDuration == nil {
		return
	}
	m.webhookDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
