package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.InDelta(t, float64(20*time.Second), float64(retry), float64(time.Millisecond))

	// other clients have their own bucket
	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok)

	now = now.Add(21 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(30 * time.Minute)
	rl.Allow("10.0.0.2")

	now = now.Add(31 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "10.0.0.1")
	assert.Contains(t, rl.clients, "10.0.0.2")
}

func TestRateLimiter_NilAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	require.Nil(t, rl)

	ok, _ := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimitMiddleware_Router(t *testing.T) {
	srv := newTestServer(t, NewRateLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := srv.do(t, http.MethodPost, "/match/calculate", scenarioBody)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
	}

	w := srv.do(t, http.MethodPost, "/match/calculate", scenarioBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.RateLimited))

	// health checks are not limited
	w = srv.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(req))
}
