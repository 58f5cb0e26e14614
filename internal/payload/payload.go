// Package payload normalizes webhook request bodies into a tagged payload
// value chosen from the declared Content-Type.
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrMalformedPayload reports a body that declared a JSON content type but
// failed to parse. Callers map it to a 400-class response.
var ErrMalformedPayload = errors.New("malformed JSON payload")

type Kind int

const (
	KindJSON Kind = iota
	KindRaw
)

// Payload is the decoded form of one request body. Exactly one variant is
// populated: Value for KindJSON, Text/Form for KindRaw.
type Payload struct {
	Kind  Kind
	Value interface{}
	Text  string
	Form  map[string]string
}

// Decode turns raw body bytes into a Payload based on the Content-Type
// header. A content type containing "application/json" (case-insensitive,
// parameters ignored) is parsed as a JSON tree; anything else becomes a raw
// payload carrying the body as UTF-8 text plus any form fields. Decode is a
// pure function of its inputs.
func Decode(contentType string, body []byte, form url.Values) (Payload, error) {
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var value interface{}
		if err := json.Unmarshal(body, &value); err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Payload{Kind: KindJSON, Value: value}, nil
	}

	p := Payload{
		Kind: KindRaw,
		Text: strings.ToValidUTF8(string(body), "�"),
	}
	if len(form) > 0 {
		p.Form = make(map[string]string, len(form))
		for key := range form {
			// Repeated fields collapse to the last value.
			values := form[key]
			p.Form[key] = values[len(values)-1]
		}
	}
	return p, nil
}

// TypeTag returns the coarse payload classification used in summaries: the
// JSON value kind for structured payloads, "form" for raw payloads carrying
// form fields, "raw" otherwise.
func (p Payload) TypeTag() string {
	if p.Kind == KindRaw {
		if len(p.Form) > 0 {
			return "form"
		}
		return "raw"
	}

	switch p.Value.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

// Size returns the serialized length of the payload in bytes. Form fields
// are derived from the same bytes as Text and do not count separately.
func (p Payload) Size() int {
	if p.Kind == KindRaw {
		return len(p.Text)
	}
	serialized, err := json.Marshal(p.Value)
	if err != nil {
		return 0
	}
	return len(serialized)
}

// Summary is the generic processing result returned for accepted deliveries.
type Summary struct {
	ReceivedAt  string `json:"received_at"`
	PayloadSize int    `json:"payload_size"`
	PayloadType string `json:"payload_type"`
}

// Summarize computes the receipt summary for a decoded payload.
func Summarize(p Payload, receivedAt time.Time) Summary {
	return Summary{
		ReceivedAt:  receivedAt.UTC().Format(time.RFC3339),
		PayloadSize: p.Size(),
		PayloadType: p.TypeTag(),
	}
}
