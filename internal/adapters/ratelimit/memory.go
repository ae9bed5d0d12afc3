// Package ratelimit holds the in-process per-client limiter.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"booking_relay/internal/adapters/observability"
	"booking_relay/internal/domain"
	"booking_relay/internal/shared"
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Memory keeps one token bucket per key: burst = max, refilled at max/window.
// Buckets idle for a full window are full again and get pruned.
type Memory struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	max       int
	window    time.Duration
	every     rate.Limit
	clock     shared.Clock
	lastPrune time.Time
}

func NewMemory(max int, window time.Duration, clock shared.Clock) *Memory {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	if clock == nil {
		clock = shared.RealClock{}
	}
	return &Memory{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		every:   rate.Limit(float64(max) / window.Seconds()),
		clock:   clock,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (domain.Decision, error) {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune(now)
	b, ok := m.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(m.every, m.max)}
		m.buckets[key] = b
	}
	b.lastSeen = now

	if b.lim.AllowN(now, 1) {
		observability.ObserveRateLimit("memory", "allow")
		return domain.Decision{Allowed: true, Remaining: int(math.Floor(b.lim.TokensAt(now)))}, nil
	}

	missing := 1 - b.lim.TokensAt(now)
	wait := time.Duration(math.Ceil(missing / float64(m.every) * float64(time.Second)))
	observability.ObserveRateLimit("memory", "reject")
	return domain.Decision{Allowed: false, RetryAfter: wait}, nil
}

// Len reports the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

func (m *Memory) prune(now time.Time) {
	if now.Sub(m.lastPrune) < m.window {
		return
	}
	m.lastPrune = now
	for k, b := range m.buckets {
		if now.Sub(b.lastSeen) >= m.window {
			delete(m.buckets, k)
		}
	}
}
