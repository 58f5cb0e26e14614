package logging

import "log/slog"

// Common field names for consistent logging across the gateway.
const (
	FieldService     = "service"
	FieldIP          = "ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldProvider    = "provider"
	FieldEvent       = "event"
	FieldDeliveryID  = "delivery_id"
	FieldContentType = "content_type"
	FieldPayloadSize = "payload_size"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// IP returns a slog attribute for the IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Provider returns a slog attribute for a webhook provider name.
func Provider(name string) slog.Attr {
	return slog.String(FieldProvider, name)
}

// Event returns a slog attribute for a provider event type.
func Event(eventType string) slog.Attr {
	return slog.String(FieldEvent, eventType)
}

// DeliveryID returns a slog attribute for a provider delivery ID.
func DeliveryID(id string) slog.Attr {
	return slog.String(FieldDeliveryID, id)
}

// ContentType returns a slog attribute for the request content type.
func ContentType(ct string) slog.Attr {
	return slog.String(FieldContentType, ct)
}

// PayloadSize returns a slog attribute for the payload size in bytes.
func PayloadSize(n int) slog.Attr {
	return slog.Int(FieldPayloadSize, n)
}
