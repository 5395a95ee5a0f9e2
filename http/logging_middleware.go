package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"retirement-match/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request and records it under route, the
// registered path pattern rather than the concrete URL.
func LoggingMiddleware(logger zerolog.Logger, m *metrics.Registry, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		if m != nil {
			m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Float64("duration_ms", float64(elapsed.Microseconds())/1000).
			Str("remote_ip", clientIP(r)).
			Msg("http_request")
	})
}
