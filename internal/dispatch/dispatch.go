// Package dispatch selects the handling branch for provider events based on
// their event-type header value.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hookgate-io/hookgate/internal/logging"
	"github.com/hookgate-io/hookgate/internal/metrics"
	"github.com/hookgate-io/hookgate/internal/models"
)

// EventKind is the handling branch for one event type. Classification is
// total: every string maps to exactly one kind.
type EventKind int

const (
	EventOther EventKind = iota
	EventPush
	EventPullRequest
)

// eventKinds is the complete mapping of recognized event-type values.
// Anything absent classifies as EventOther, which is accepted but not
// specially processed.
var eventKinds = map[string]EventKind{
	"push":         EventPush,
	"pull_request": EventPullRequest,
}

func (k EventKind) String() string {
	switch k {
	case EventPush:
		return "push"
	case EventPullRequest:
		return "pull_request"
	default:
		return "other"
	}
}

// Classify maps an event-type header value to its handling branch. A missing
// or empty value is EventOther, never an error.
func Classify(eventType string) EventKind {
	if kind, ok := eventKinds[eventType]; ok {
		return kind
	}
	return EventOther
}

// Outcome describes how a delivery was dispatched.
type Outcome struct {
	Event   string
	Kind    EventKind
	Handled bool
	Message string
}

// Handler processes one recognized provider event.
type Handler func(ctx context.Context, event models.ProviderEvent) error

// Forwarder receives accepted events after dispatch. Implementations must
// not block the request path; forwarding failures never change the HTTP
// outcome.
type Forwarder interface {
	Forward(ctx context.Context, event models.ProviderEvent, kind EventKind)
}

// Dispatcher routes provider events to per-kind handlers.
type Dispatcher struct {
	handlers  map[EventKind]Handler
	forwarder Forwarder
	logger    *logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHandler installs a handler for the given event kind, replacing the
// default one.
func WithHandler(kind EventKind, h Handler) Option {
	return func(d *Dispatcher) {
		d.handlers[kind] = h
	}
}

// WithForwarder attaches a downstream forwarder for accepted events.
func WithForwarder(f Forwarder) Option {
	return func(d *Dispatcher) {
		d.forwarder = f
	}
}

// New returns a Dispatcher with logging placeholder handlers for push and
// pull_request events. Real business logic replaces them via WithHandler.
func New(logger *logging.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: map[EventKind]Handler{},
		logger:   logger,
	}
	d.handlers[EventPush] = d.logOnly("processing push event")
	d.handlers[EventPullRequest] = d.logOnly("processing pull request event")
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) logOnly(msg string) Handler {
	return func(ctx context.Context, event models.ProviderEvent) error {
		d.logger.InfoContext(ctx, msg,
			slog.String("provider", event.Provider),
			slog.String("event", event.Type),
			slog.String("delivery_id", event.DeliveryID),
		)
		return nil
	}
}

// Dispatch routes the event to its handler. Unrecognized event types,
// including an empty type, succeed with an unhandled outcome. An error is
// returned only when a handler genuinely fails.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.ProviderEvent) (Outcome, error) {
	kind := Classify(event.Type)
	metrics.DispatchTotal.WithLabelValues(event.Provider, kind.String()).Inc()

	handler, ok := d.handlers[kind]
	if !ok {
		d.logger.InfoContext(ctx, "unhandled provider event",
			slog.String("provider", event.Provider),
			slog.String("event", event.Type),
		)
		return Outcome{
			Event:   event.Type,
			Kind:    kind,
			Handled: false,
			Message: unhandledMessage(event),
		}, nil
	}

	if err := handler(ctx, event); err != nil {
		return Outcome{}, fmt.Errorf("handle %s %s event: %w", event.Provider, event.Type, err)
	}

	if d.forwarder != nil {
		d.forwarder.Forward(ctx, event, kind)
	}

	return Outcome{
		Event:   event.Type,
		Kind:    kind,
		Handled: true,
		Message: fmt.Sprintf("%s %s event processed", displayName(event.Provider), event.Type),
	}, nil
}

func unhandledMessage(event models.ProviderEvent) string {
	name := displayName(event.Provider)
	if event.Type == "" {
		return fmt.Sprintf("Unhandled %s event: no event type header", name)
	}
	return fmt.Sprintf("Unhandled %s event: %s", name, event.Type)
}

func displayName(provider string) string {
	if provider == "github" {
		return "GitHub"
	}
	return provider
}
