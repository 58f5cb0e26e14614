package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Delivery metrics
	WebhooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookgate_webhooks_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"endpoint", "status"},
	)

	WebhookBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookgate_webhook_bytes_total",
			Help: "Total bytes of webhook payload data received",
		},
	)

	// Dispatch metrics
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookgate_dispatch_total",
			Help: "Total number of provider events by dispatch branch",
		},
		[]string{"provider", "event"},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookgate_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
	)

	// Signature verification metrics
	SignatureFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookgate_signature_failures_total",
			Help: "Total number of rejected webhook signatures",
		},
		[]string{"provider"},
	)

	// Forwarding metrics
	ForwardErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookgate_forward_errors_total",
			Help: "Total number of failed downstream event publishes",
		},
	)
)
