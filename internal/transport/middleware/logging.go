package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/pkg/logger"
)

// sensitiveParams are query parameter names never written to the access log.
var sensitiveParams = []string{"password", "token", "secret"}

// statusWriter captures the status code and bytes written for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// AccessLog writes one structured line per request. Request bodies are never
// logged; they may contain passwords.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		log := logger.From(r.Context())
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"query", filterQuery(r.URL.RawQuery),
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"size", sw.size,
			"remote_addr", r.RemoteAddr,
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	})
}

func filterQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	lower := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(lower, param) {
			return "[FILTERED]"
		}
	}
	return rawQuery
}
