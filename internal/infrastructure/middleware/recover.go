package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
)

// RecoverMiddleware turns a panicking handler into a 500 response and logs the stack
func RecoverMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				requestID := GetRequestID(r.Context())
				log.Error("Handler panicked", map[string]interface{}{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})

				writeJSONError(w, http.StatusInternalServerError, "Internal server error", requestID)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes the same error body shape the handlers use
func writeJSONError(w http.ResponseWriter, status int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":      message,
		"status":     status,
		"request_id": requestID,
	})
}
