package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	clientIdleThreshold = 1 * time.Hour
	cleanupInterval     = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows each client capacity requests per refill period, refilled
// continuously. A nil *RateLimiter allows everything.
type RateLimiter struct {
	mu          sync.Mutex
	limit       rate.Limit
	burst       int
	clients     map[string]*clientLimiter
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

func NewRateLimiter(capacity int, refillDur time.Duration) *RateLimiter {
	if capacity <= 0 || refillDur <= 0 {
		return nil
	}

	rl := &RateLimiter{
		limit:       rate.Every(refillDur / time.Duration(capacity)),
		burst:       capacity,
		clients:     make(map[string]*clientLimiter),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for ip, client := range r.clients {
		if now.Sub(client.lastSeen) > clientIdleThreshold {
			delete(r.clients, ip)
		}
	}
}

func (r *RateLimiter) Stop() {
	if r == nil {
		return
	}
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

// Allow reports whether ip may make a request now and, if not, how long it
// should wait before retrying.
func (r *RateLimiter) Allow(ip string) (bool, time.Duration) {
	if r == nil {
		return true, 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	client, exists := r.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.clients[ip] = client
	}
	client.lastSeen = now

	res := client.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Burst is the number of requests a fresh client may make at once.
func (r *RateLimiter) Burst() int {
	if r == nil {
		return 0
	}
	return r.burst
}
