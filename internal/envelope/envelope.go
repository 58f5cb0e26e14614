// Package envelope builds the uniform JSON response wrapper returned by
// every gateway endpoint.
package envelope

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	// StatusHealthy is the distinct literal used by the health endpoint.
	StatusHealthy = "healthy"
)

// Envelope is the response wrapper. Every code path through the gateway
// produces exactly one Envelope paired with one HTTP status code.
type Envelope struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// now is swapped out in tests.
var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

// Success returns a success envelope. data may be nil.
func Success(message string, data interface{}) Envelope {
	return Envelope{
		Status:    StatusSuccess,
		Message:   message,
		Timestamp: timestamp(),
		Data:      data,
	}
}

// Error returns an error envelope. Error envelopes never carry data.
func Error(message string) Envelope {
	return Envelope{
		Status:    StatusError,
		Message:   message,
		Timestamp: timestamp(),
	}
}

// Healthy returns the health-check envelope.
func Healthy(message string) Envelope {
	return Envelope{
		Status:    StatusHealthy,
		Message:   message,
		Timestamp: timestamp(),
	}
}

// Write serializes the envelope with the given HTTP status code.
func Write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response envelope", slog.String("error", err.Error()))
	}
}
