// Package sink forwards accepted provider events to downstream consumers.
//
// Forwarding is the pluggable business-logic extension point behind the
// dispatcher: the gateway's accept-and-acknowledge contract toward the
// sender never depends on it, so publish failures are logged and counted but
// never surface in the HTTP response.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hookgate-io/hookgate/internal/dispatch"
	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/metrics"
	"github.com/hookgate-io/hookgate/internal/models"
)

// Config holds NATS forwarder configuration.
type Config struct {
	// URL is the NATS server URL (e.g., "nats://localhost:4222").
	URL string

	// SubjectPrefix is prepended to "<provider>.<event>" when publishing.
	SubjectPrefix string

	// Name is the client name for connection identification.
	Name string

	// MaxReconnects is the maximum number of reconnection attempts.
	// Use -1 for infinite reconnects.
	MaxReconnects int

	// ReconnectWait is the time to wait between reconnection attempts.
	ReconnectWait time.Duration

	// Timeout is the connection timeout.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		SubjectPrefix: "hookgate.events",
		Name:          "hookgate-forwarder",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		Timeout:       5 * time.Second,
	}
}

// NATSForwarder publishes accepted provider events to NATS subjects.
type NATSForwarder struct {
	conn    *nats.Conn
	prefix  string
	logger  *logging.Logger
	publish func(subject string, data []byte) error
}

var _ dispatch.Forwarder = (*NATSForwarder)(nil)

// NewNATSForwarder connects to NATS and returns a forwarder.
func NewNATSForwarder(cfg Config, logger *logging.Logger) (*NATSForwarder, error) {
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Logger.Warn("NATS disconnected", logging.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Logger.Info("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	f := &NATSForwarder{
		conn:   conn,
		prefix: cfg.SubjectPrefix,
		logger: logger,
	}
	f.publish = conn.Publish
	return f, nil
}

// envelope is the wire format published for each forwarded event.
type envelope struct {
	Provider   string      `json:"provider"`
	Event      string      `json:"event"`
	DeliveryID string      `json:"delivery_id,omitempty"`
	ReceivedAt time.Time   `json:"received_at"`
	Payload    interface{} `json:"payload,omitempty"`
}

// Forward publishes the event to "<prefix>.<provider>.<event>". Errors are
// logged and counted; the caller's outcome is unaffected.
func (f *NATSForwarder) Forward(ctx context.Context, event models.ProviderEvent, kind dispatch.EventKind) {
	subject := fmt.Sprintf("%s.%s.%s", f.prefix, event.Provider, kind.String())

	data, err := json.Marshal(envelope{
		Provider:   event.Provider,
		Event:      event.Type,
		DeliveryID: event.DeliveryID,
		ReceivedAt: event.ReceivedAt.UTC(),
		Payload:    event.Payload.Value,
	})
	if err != nil {
		metrics.ForwardErrors.Inc()
		f.logger.ErrorContext(ctx, "failed to marshal forwarded event", logging.Error(err))
		return
	}

	if err := f.publish(subject, data); err != nil {
		metrics.ForwardErrors.Inc()
		f.logger.ErrorContext(ctx, "failed to publish event",
			logging.Error(err),
			logging.Provider(event.Provider),
			logging.Event(event.Type),
		)
		return
	}

	f.logger.DebugContext(ctx, "event forwarded",
		logging.Provider(event.Provider),
		logging.Event(event.Type),
		logging.DeliveryID(event.DeliveryID),
	)
}

// Close releases the NATS connection.
func (f *NATSForwarder) Close() error {
	if f.conn != nil {
		f.conn.Close()
	}
	return nil
}

// IsConnected returns true if connected to NATS.
func (f *NATSForwarder) IsConnected() bool {
	return f.conn != nil && f.conn.IsConnected()
}
