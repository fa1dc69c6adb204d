package bridge

import (
	"sync"
	"time"
)

// RateLimiter throttles sky telemetry per host
type RateLimiter struct {
	mu          sync.RWMutex
	lastPublish map[string]time.Time
	now         func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		lastPublish: make(map[string]time.Time),
		now:         time.Now,
	}
}

// ShouldPublish reports whether at least minIntervalMs has passed since the
// last publication for host, and records this one if so
func (rl *RateLimiter) ShouldPublish(host string, minIntervalMs int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	lastTime, exists := rl.lastPublish[host]
	if exists && now.Sub(lastTime) < time.Duration(minIntervalMs)*time.Millisecond {
		return false
	}

	rl.lastPublish[host] = now
	return true
}

// LastPublish returns the last publication time for a host
func (rl *RateLimiter) LastPublish(host string) (time.Time, bool) {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	lastTime, exists := rl.lastPublish[host]
	return lastTime, exists
}

// Forget drops the state kept for a host
func (rl *RateLimiter) Forget(host string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.lastPublish, host)
}
