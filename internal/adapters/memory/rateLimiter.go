// Package memory holds single-process adapters used when no shared backend
// is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMemory is a token bucket per key refilled at limit per window,
// with a burst of limit. Counts are local to the process.
type RateLimiterMemory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    rate.Limit
	burst   int
	now     func() time.Time
}

func NewRateLimiterMemory(limit int, window time.Duration) *RateLimiterMemory {
	return &RateLimiterMemory{
		buckets: make(map[string]*bucket),
		rate:    rate.Every(window / time.Duration(limit)),
		burst:   limit,
		now:     time.Now,
	}
}

func (m *RateLimiterMemory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(m.rate, m.burst)}
		m.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// Prune forgets keys not seen for idle and returns how many were dropped.
func (m *RateLimiterMemory) Prune(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	dropped := 0
	for key, b := range m.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(m.buckets, key)
			dropped++
		}
	}
	return dropped
}

// StartPruning calls Prune every interval until ctx is done.
func (m *RateLimiterMemory) StartPruning(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Prune(idle)
			}
		}
	}()
}
