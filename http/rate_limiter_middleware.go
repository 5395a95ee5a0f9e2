package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"retirement-match/metrics"
)

func RateLimitMiddleware(
	limiter *RateLimiter,
	m *metrics.Registry,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		allowed, retryAfter := limiter.Allow(clientIP(r))
		if !allowed {
			if m != nil {
				m.RateLimited.Inc()
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))
			w.Header().Set("X-RateLimit-Remaining", "0")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
