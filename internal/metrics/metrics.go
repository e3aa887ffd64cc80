// Package metrics exposes prometheus counters for the two request cores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	WebhookEvents *prometheus.CounterVec
	ChatRequests  *prometheus.CounterVec
}

func New() (*Metrics, error) {
	m := &Metrics{
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "margin_stripe_webhook_events_total",
			Help: "Stripe webhook deliveries by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "margin_assistant_chat_requests_total",
			Help: "Assistant chat requests by outcome.",
		}, []string{"outcome"}),
	}

	for _, collector := range []prometheus.Collector{m.WebhookEvents, m.ChatRequests} {
		if err := prometheus.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// Outcome labels shared by handlers.
const (
	OutcomeProcessed = "processed"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
	OutcomeStreamed  = "streamed"
	OutcomeDenied    = "denied"
)

// Module provides request counters.
var Module = fx.Module("metrics",
	fx.Provide(New),
)
