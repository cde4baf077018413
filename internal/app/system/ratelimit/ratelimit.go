// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"

	"github.com/dalemusser/ecopirates/internal/app/system/clock"
)

// Limiter is a fixed-window counter keyed by caller (user id, IP, ...).
// It is safe for concurrent use. Expired windows are swept on Allow, so the
// limiter owns no background goroutine.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max requests per window
	duration time.Duration // window duration
	clk      clock.Clock
	sweepAt  time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration.
// A nil clock uses the system clock.
func New(limit int, duration time.Duration, clk clock.Clock) *Limiter {
	if clk == nil {
		clk = clock.System{}
	}
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		clk:      clk,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clk.Now()
	l.sweep(now)

	w, exists := l.windows[key]
	if !exists || !now.Before(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key has left in its current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || !l.clk.Now().Before(w.expiresAt) {
		return l.limit
	}
	return max(0, l.limit-w.count)
}

// RetryAfter returns how long key must wait before its window resets.
// Zero means a request would be allowed now.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, exists := l.windows[key]
	if !exists || w.count < l.limit {
		return 0
	}
	return max(0, w.expiresAt.Sub(l.clk.Now()))
}

// sweep drops expired windows at most once per window duration.
// Caller must hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Before(l.sweepAt) {
		return
	}
	for key, w := range l.windows {
		if !now.Before(w.expiresAt) {
			delete(l.windows, key)
		}
	}
	l.sweepAt = now.Add(l.duration)
}
