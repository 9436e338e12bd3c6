package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Recovery catches handler panics, logs them server-side, and returns a
// generic 500 without leaking details.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					body := map[string]any{
						"success":   false,
						"error":     "Internal Server Error",
						"message":   "An unexpected error occurred",
						"timestamp": time.Now().UTC().Format(time.RFC3339),
					}
					if encErr := json.NewEncoder(w).Encode(body); encErr != nil {
						logger.Error("failed_to_encode_error_response", zap.Error(encErr))
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
