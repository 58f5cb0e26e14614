package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hookgate-io/hookgate/internal/envelope"
)

// Recover converts handler panics into a 500 error envelope so that no
// request terminates without a response. The cause is logged, never sent to
// the caller.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while handling request",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				envelope.Write(w, http.StatusInternalServerError, envelope.Error("Internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
