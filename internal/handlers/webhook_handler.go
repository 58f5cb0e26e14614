package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hookgate-io/hookgate/internal/dispatch"
	"github.com/hookgate-io/hookgate/internal/envelope"
	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/metrics"
	"github.com/hookgate-io/hookgate/internal/models"
	"github.com/hookgate-io/hookgate/internal/payload"
	"github.com/hookgate-io/hookgate/internal/ratelimit"
	"github.com/hookgate-io/hookgate/internal/signature"
)

// GitHub delivery headers.
const (
	HeaderGitHubEvent    = "X-GitHub-Event"
	HeaderGitHubDelivery = "X-GitHub-Delivery"
	HeaderHubSignature   = "X-Hub-Signature-256"
)

// WebhookHandler owns the per-request flow: decode, route, dispatch, and
// error translation into response envelopes.
type WebhookHandler struct {
	dispatcher  *dispatch.Dispatcher
	rateLimiter ratelimit.RateLimiter
	verifier    signature.Verifier
	logger      *logging.Logger
	maxBodySize int64
}

func NewWebhookHandler(
	dispatcher *dispatch.Dispatcher,
	rateLimiter ratelimit.RateLimiter,
	verifier signature.Verifier,
	logger *logging.Logger,
	maxBodySize int64,
) *WebhookHandler {
	return &WebhookHandler{
		dispatcher:  dispatcher,
		rateLimiter: rateLimiter,
		verifier:    verifier,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// Health handles GET / and reports the gateway as healthy. The "healthy"
// status literal is part of the observable contract.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/healthz" {
		http.NotFound(w, r)
		return
	}
	envelope.Write(w, http.StatusOK, envelope.Healthy("Webhook gateway is running"))
}

// HandleWebhook handles POST /webhook: the generic ingestion path.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const endpoint = "webhook"
	ctx := r.Context()

	if r.Method != http.MethodPost {
		h.respond(w, endpoint, http.StatusMethodNotAllowed, envelope.Error("Method not allowed"))
		return
	}

	sourceIP := getClientIP(r)
	contentType := r.Header.Get("Content-Type")

	h.logger.InfoContext(ctx, "webhook received",
		logging.IP(sourceIP),
		logging.ContentType(contentType),
	)

	if !h.allow(ctx, sourceIP) {
		h.respond(w, endpoint, http.StatusTooManyRequests, envelope.Error("Too many requests"))
		return
	}

	body, ok := h.readBody(w, r, endpoint)
	if !ok {
		return
	}

	decoded, err := payload.Decode(contentType, body, formFields(contentType, body))
	if err != nil {
		if errors.Is(err, payload.ErrMalformedPayload) {
			h.logger.ErrorContext(ctx, "invalid JSON in webhook payload", logging.Error(err))
			h.respond(w, endpoint, http.StatusBadRequest, envelope.Error("Invalid JSON format"))
			return
		}
		h.logger.ErrorContext(ctx, "error processing webhook", logging.Error(err))
		h.respond(w, endpoint, http.StatusInternalServerError, envelope.Error("Internal server error"))
		return
	}

	summary := payload.Summarize(decoded, time.Now())
	h.logger.InfoContext(ctx, "webhook processed",
		logging.PayloadSize(summary.PayloadSize),
		slog.String("payload_type", summary.PayloadType),
	)

	h.respond(w, endpoint, http.StatusOK, envelope.Success("Webhook processed successfully", summary))
}

// HandleGitHub handles POST /webhook/github: the provider path. Every
// event-type value is accepted; only signature rejection (when enabled) and
// genuine internal failures produce non-200 outcomes.
func (h *WebhookHandler) HandleGitHub(w http.ResponseWriter, r *http.Request) {
	const endpoint = "webhook_github"
	ctx := r.Context()

	if r.Method != http.MethodPost {
		h.respond(w, endpoint, http.StatusMethodNotAllowed, envelope.Error("Method not allowed"))
		return
	}

	eventType := r.Header.Get(HeaderGitHubEvent)
	sig := r.Header.Get(HeaderHubSignature)
	sourceIP := getClientIP(r)

	h.logger.InfoContext(ctx, "GitHub webhook received",
		logging.IP(sourceIP),
		logging.Event(eventType),
	)

	if !h.allow(ctx, sourceIP) {
		h.respond(w, endpoint, http.StatusTooManyRequests, envelope.Error("Too many requests"))
		return
	}

	body, ok := h.readBody(w, r, endpoint)
	if !ok {
		return
	}

	if h.verifier != nil && h.verifier.Enabled() && !h.verifier.Verify(body, sig) {
		metrics.SignatureFailures.WithLabelValues("github").Inc()
		h.logger.WarnContext(ctx, "invalid webhook signature", logging.IP(sourceIP))
		h.respond(w, endpoint, http.StatusUnauthorized, envelope.Error("Invalid signature"))
		return
	}

	decoded, err := payload.Decode(r.Header.Get("Content-Type"), body, nil)
	if err != nil {
		if errors.Is(err, payload.ErrMalformedPayload) {
			h.logger.ErrorContext(ctx, "invalid JSON in GitHub webhook payload", logging.Error(err))
			h.respond(w, endpoint, http.StatusBadRequest, envelope.Error("Invalid JSON format"))
			return
		}
		h.logger.ErrorContext(ctx, "error processing GitHub webhook", logging.Error(err))
		h.respond(w, endpoint, http.StatusInternalServerError, envelope.Error("Failed to process GitHub webhook"))
		return
	}

	event := models.ProviderEvent{
		Provider:   "github",
		Type:       eventType,
		DeliveryID: r.Header.Get(HeaderGitHubDelivery),
		Signature:  sig,
		Payload:    decoded,
		ReceivedAt: time.Now().UTC(),
	}

	outcome, err := h.dispatcher.Dispatch(ctx, event)
	if err != nil {
		h.logger.ErrorContext(ctx, "error processing GitHub webhook", logging.Error(err))
		h.respond(w, endpoint, http.StatusInternalServerError, envelope.Error("Failed to process GitHub webhook"))
		return
	}

	h.respond(w, endpoint, http.StatusOK, envelope.Success(outcome.Message, nil))
}

// allow consults the rate limiter. Limiter failures are logged and treated
// as allowed so that a broken limiter cannot take down ingestion.
func (h *WebhookHandler) allow(ctx context.Context, sourceIP string) bool {
	if h.rateLimiter == nil {
		return true
	}
	allowed, err := h.rateLimiter.Allow(ctx, "ip:"+sourceIP)
	if err != nil {
		h.logger.WarnContext(ctx, "rate limiter check failed", logging.Error(err))
		return true
	}
	return allowed
}

// readBody reads the capped request body, writing the error envelope itself
// when reading fails.
func (h *WebhookHandler) readBody(w http.ResponseWriter, r *http.Request, endpoint string) ([]byte, bool) {
	reader := r.Body
	if h.maxBodySize > 0 {
		reader = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
	defer r.Body.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respond(w, endpoint, http.StatusRequestEntityTooLarge, envelope.Error("Request body too large"))
			return nil, false
		}
		h.respond(w, endpoint, http.StatusBadRequest, envelope.Error("Failed to read request body"))
		return nil, false
	}

	metrics.WebhookBytesTotal.Add(float64(len(body)))
	return body, true
}

func (h *WebhookHandler) respond(w http.ResponseWriter, endpoint string, status int, env envelope.Envelope) {
	metrics.WebhooksTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	envelope.Write(w, status, env)
}

// formFields parses url-encoded form bodies into values for the decoder.
// Non-form content types yield nil.
func formFields(contentType string, body []byte) url.Values {
	if !strings.Contains(strings.ToLower(contentType), "application/x-www-form-urlencoded") {
		return nil
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil
	}
	return values
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
