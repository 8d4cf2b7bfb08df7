package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/logger"
)

// Recovery turns a handler panic into the storefront's standard 500
// envelope instead of tearing down the connection. The stack goes to the
// log together with the request's correlation ID so the panic can be
// matched to the shopper's request.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					body := map[string]any{
						"error": map[string]string{
							"code":       "INTERNAL_ERROR",
							"message":    "an internal error occurred",
							"request_id": logger.CorrelationIDFromContext(r.Context()),
						},
					}
					if err := json.NewEncoder(w).Encode(body); err != nil {
						l.Error("failed to encode response", slog.String("error", err.Error()))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
