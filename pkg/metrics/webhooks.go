package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records processing outcomes for Stripe webhook deliveries.
type WebhookMetrics struct {
	duration  *prometheus.HistogramVec
	processed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	duplicate *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook metrics on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_duration_seconds",
		Help:    "Duration of webhook processing in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "event_type"})
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_processed_total",
		Help: "Successfully processed webhook deliveries.",
	}, []string{"endpoint", "event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_failed_total",
		Help: "Webhook deliveries that ended in a handler error.",
	}, []string{"endpoint", "event_type"})
	duplicate := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_duplicate_total",
		Help: "Webhook deliveries acknowledged as duplicates.",
	}, []string{"endpoint"})
	reg.MustRegister(duration, processed, failed, duplicate)
	return &WebhookMetrics{
		duration:  duration,
		processed: processed,
		failed:    failed,
		duplicate: duplicate,
	}
}

// ObserveDuration records the processing duration for an event type.
func (w *WebhookMetrics) ObserveDuration(endpoint, eventType string, duration time.Duration) {
	if w == nil || w.duration == nil {
		return
	}
	w.duration.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(eventType)).Observe(duration.Seconds())
}

// IncProcessed increments the processed counter.
func (w *WebhookMetrics) IncProcessed(endpoint, eventType string) {
	if w == nil || w.processed == nil {
		return
	}
	w.processed.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failure counter.
func (w *WebhookMetrics) IncFailed(endpoint, eventType string) {
	if w == nil || w.failed == nil {
		return
	}
	w.failed.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(eventType)).Inc()
}

// IncDuplicate increments the duplicate-delivery counter.
func (w *WebhookMetrics) IncDuplicate(endpoint string) {
	if w == nil || w.duplicate == nil {
		return
	}
	w.duplicate.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
