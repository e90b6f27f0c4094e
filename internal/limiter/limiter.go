// Package limiter provides per-key request rate limiting for the auth endpoints.
package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter reports whether a request keyed by caller identity (remote IP) is
// currently allowed.
type Limiter interface {
	Allow(key string) bool
}

// Memory is an in-process token-bucket limiter with one bucket per key.
type Memory struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

var _ Limiter = (*Memory)(nil)

// NewMemory constructs a limiter refilling one token per `every`, holding at
// most burst tokens.
func NewMemory(every time.Duration, burst int) *Memory {
	if every <= 0 {
		every = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	return &Memory{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(every),
		burst:    burst,
	}
}

// Allow consumes one token from the key's bucket.
func (m *Memory) Allow(key string) bool {
	m.mu.Lock()
	lim, ok := m.limiters[key]
	if !ok {
		lim = rate.NewLimiter(m.limit, m.burst)
		m.limiters[key] = lim
	}
	m.mu.Unlock()
	return lim.Allow()
}
