// Package ratelimit enforces fixed-window request limits per client key.
package ratelimit

import (
	"sync"
	"time"
)

// Limit defines one fixed window. Zero values mean no limit.
type Limit struct {
	MaxRequests   int `yaml:"max_requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the window duration.
func (l Limit) Window() time.Duration {
	return time.Duration(l.WindowSeconds) * time.Second
}

// Enabled reports whether the limit is active.
func (l Limit) Enabled() bool {
	return l.MaxRequests > 0 && l.WindowSeconds > 0
}

// window tracks one key's counter within the current fixed window.
type window struct {
	start time.Time
	count int
}

// Limiter applies a default limit plus optional per-key overrides.
// Safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	def       Limit
	overrides map[string]Limit
	windows   map[string]*window
}

// New creates a limiter. overrides may be nil.
func New(def Limit, overrides map[string]Limit) *Limiter {
	return &Limiter{
		def:       def,
		overrides: overrides,
		windows:   make(map[string]*window),
	}
}

// Allow records one request for key and reports whether it fits the
// window. When the window has expired the counter resets first.
func (l *Limiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit := l.def
	if override, ok := l.overrides[key]; ok {
		limit = override
	}
	if !limit.Enabled() {
		return true
	}

	w := l.windows[key]
	if w == nil || now.Sub(w.start) >= limit.Window() {
		w = &window{start: now}
		l.windows[key] = w
	}
	if w.count >= limit.MaxRequests {
		return false
	}
	w.count++
	return true
}

// SetLimits replaces the limits without resetting open windows. Used by
// config hot reload.
func (l *Limiter) SetLimits(def Limit, overrides map[string]Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.def = def
	l.overrides = overrides
}
