package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/clubhouse/clubhouse/internal/api/response"
)

// Recovery is middleware that turns a panic into a 500 envelope. An aborted
// handler is re-panicked so net/http can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				requestID := GetRequestID(r.Context())
				slog.Error("panic recovered",
					"error", rec,
					"requestId", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
