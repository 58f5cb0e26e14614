package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hookgate-io/hookgate/internal/handlers"
	"github.com/hookgate-io/hookgate/internal/middleware"
)

// NewRouter constructs a ServeMux with gateway routes registered.
func NewRouter(h *handlers.WebhookHandler) http.Handler {
	mux := http.NewServeMux()

	// Webhook endpoints
	mux.HandleFunc("/webhook", h.HandleWebhook)
	mux.HandleFunc("/webhook/github", h.HandleGitHub)

	// Health endpoints
	mux.HandleFunc("/", h.Health)
	mux.HandleFunc("/healthz", h.Health)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(middleware.Recover(mux))
}
