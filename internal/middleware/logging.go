package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseRecorder captures the status code written by a handler.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request with method, path, status, authenticated user
// and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logFn := slog.Info
		if rec.status >= http.StatusInternalServerError {
			logFn = slog.Error
		} else if rec.status >= http.StatusBadRequest {
			logFn = slog.Warn
		}
		logFn("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"user_id", GetUserID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
