package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxLoggedBody = 2048

type responseWriter struct {
	http.ResponseWriter
	body   *bytes.Buffer
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status >= http.StatusBadRequest && rw.body.Len() < maxLoggedBody {
		rw.body.Write(b)
	}

	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// LoggingMiddleware logs one line per request. 4xx responses are logged at
// warn level, 5xx at error level with the response body attached.
func LoggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(rw, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.status,
				"size", rw.size,
				"duration", time.Since(start).String(),
				"request_id", chimw.GetReqID(r.Context()),
			}

			switch {
			case rw.status >= http.StatusInternalServerError:
				log.Error("request failed", append(attrs, "response_body", rw.body.String())...)
			case rw.status >= http.StatusBadRequest:
				log.Warn("request rejected", append(attrs, "response_body", rw.body.String())...)
			default:
				log.Info("request handled", attrs...)
			}
		})
	}
}
