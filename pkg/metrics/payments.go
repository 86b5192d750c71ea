package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics counts intent creations and webhook event outcomes.
type PaymentMetrics struct {
	created *prometheus.CounterVec
	events  *prometheus.CounterVec
}

// Webhook event results recorded on the events counter.
const (
	WebhookResultApplied  = "applied"
	WebhookResultRejected = "rejected"
)

// NewPaymentMetrics registers the payment counters on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_intents_created_total",
		Help: "Payment intents created.",
	}, []string{"method"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_webhook_events_total",
		Help: "Gateway webhook events by type and outcome.",
	}, []string{"type", "result"})
	reg.MustRegister(created, events)
	return &PaymentMetrics{
		created: created,
		events:  events,
	}
}

// IncCreated counts one created intent for the given payment method.
func (p *PaymentMetrics) IncCreated(method string) {
	if p == nil || p.created == nil {
		return
	}
	p.created.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncWebhookEvent counts one webhook delivery outcome.
func (p *PaymentMetrics) IncWebhookEvent(eventType, result string) {
	if p == nil || p.events == nil {
		return
	}
	p.events.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}
