package repository

import (
	"context"
	"sync"
	"time"
)

const memorySweepInterval = 5 * time.Minute

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process CacheRepository. A zero TTL keeps entries until
// they are evicted; a zero maxEntries leaves the size unbounded.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	stopSweep chan struct{}
	stopOnce  sync.Once
}

// NewMemoryCache starts a background sweep of expired entries when ttl is
// positive. Call Close to stop it.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	m := &MemoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stopSweep:  make(chan struct{}),
	}
	if ttl > 0 {
		go m.sweepLoop()
	}
	return m
}

func (m *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(memorySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopSweep:
			return
		}
	}
}

// sweep drops every expired entry.
func (m *MemoryCache) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(m.now())
}

func (m *MemoryCache) sweepLocked(now time.Time) int {
	removed := 0
	for key, entry := range m.data {
		if entry.expired(now) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}
	if now := m.now(); entry.expired(now) {
		m.mu.Lock()
		// a concurrent Set may have refreshed the key
		if current, ok := m.data[key]; ok && current.expired(now) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	now := m.now()
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && m.maxEntries > 0 && len(m.data) >= m.maxEntries {
		if m.sweepLocked(now) == 0 {
			m.evictOneLocked()
		}
	}
	m.data[key] = entry
	return nil
}

// evictOneLocked drops the entry closest to expiry, or any entry when none
// expire.
func (m *MemoryCache) evictOneLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for key, entry := range m.data {
		if !found || (!entry.expires.IsZero() && entry.expires.Before(oldest)) {
			victim, oldest, found = key, entry.expires, true
		}
	}
	if found {
		delete(m.data, victim)
	}
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Close stops the background sweep. It is safe to call more than once.
func (m *MemoryCache) Close() error {
	m.stopOnce.Do(func() { close(m.stopSweep) })
	return nil
}
