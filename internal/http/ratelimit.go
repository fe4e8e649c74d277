package http

import (
	"sync"
	"sync/atomic"
	"time"
)

// rateLimiter caps POST traffic per client IP over a sliding one-minute
// window. Simulation runs are CPU-heavy, so the budget is deliberately
// small.
type rateLimiter struct {
	mu           sync.Mutex
	perMinute    int
	visitors     map[string]*visitor
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type visitor struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(perMinute int) *rateLimiter {
	rl := &rateLimiter{
		perMinute:   perMinute,
		visitors:    make(map[string]*visitor),
		stopCleanup: make(chan struct{}),
	}
	go rl.runCleanup()
	return rl
}

// runCleanup drops visitors that have been idle long enough that their
// window no longer matters.
func (rl *rateLimiter) runCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, v := range rl.visitors {
		if v.windowStart.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether a request from clientIP fits the per-minute
// budget, recording a metric hit when it does not.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.visitors[clientIP]
	if !exists || now.Sub(v.windowStart) > time.Minute {
		rl.visitors[clientIP] = &visitor{windowStart: now, count: 1}
		return true
	}

	v.count++
	if v.count > rl.perMinute {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
