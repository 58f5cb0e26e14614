package models

import (
	"time"

	"github.com/hookgate-io/hookgate/internal/payload"
)

// ProviderEvent is one delivery received on a provider-specific endpoint.
// All fields come from transport metadata; the event never outlives its
// request.
type ProviderEvent struct {
	Provider   string          `json:"provider"`
	Type       string          `json:"type"`
	DeliveryID string          `json:"delivery_id,omitempty"`
	Signature  string          `json:"-"`
	Payload    payload.Payload `json:"-"`
	ReceivedAt time.Time       `json:"received_at"`
}
