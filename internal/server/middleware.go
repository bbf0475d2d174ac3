package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicai/internal/shared"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger returns [Middleware] that tags each request with a generated
// id and logs the method, path, status, and duration on completion.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := shared.GenerateID()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(recorder, r)

			logger.Info("request",
				"id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Recoverer returns [Middleware] that converts handler panics into 500
// responses instead of tearing down the connection.
func Recoverer(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic", "path", r.URL.Path, "panic", rec)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
