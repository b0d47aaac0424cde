// Package ratelimit provides the per-client admission gate in front of
// the audit API. The window is fixed: the first request from a client
// opens it, and the counter resets only when the window expires.
package ratelimit

import (
	"sync"
	"time"
)

// Gate admits or rejects a request attributed to key. Implementations
// must be safe for concurrent use.
type Gate interface {
	Allow(key string) bool
}

// Unlimited is a Gate that admits everything. Useful for the CLI path
// and for tests.
type Unlimited struct{}

// Allow always returns true.
func (Unlimited) Allow(string) bool { return true }

type window struct {
	count   int
	resetAt time.Time
}

// FixedWindow limits each key to a fixed number of requests per window.
type FixedWindow struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

// NewFixedWindow creates a limiter admitting limit requests per period
// for each distinct key.
func NewFixedWindow(limit int, period time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is admitted.
func (f *FixedWindow) Allow(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	w, ok := f.windows[key]
	if !ok || !now.Before(w.resetAt) {
		f.windows[key] = &window{count: 1, resetAt: now.Add(f.period)}
		f.sweep(now)
		return true
	}
	if w.count >= f.limit {
		return false
	}
	w.count++
	return true
}

// sweep drops expired windows so the map does not grow with every
// client ever seen. Called with the lock held.
func (f *FixedWindow) sweep(now time.Time) {
	if len(f.windows) < 1024 {
		return
	}
	for key, w := range f.windows {
		if !now.Before(w.resetAt) {
			delete(f.windows, key)
		}
	}
}
