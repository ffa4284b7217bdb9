// Package cache holds time-bounded, process-local result caches.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a computed ranking stays fresh.
const DefaultTTL = 300 * time.Second

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// TTL is a single cached value with an expiry.
type TTL[T any] interface {
	// Get returns the value while it is fresh.
	Get() (T, bool)
	// Set stores v and restarts the expiry window.
	Set(v T)
	// Invalidate drops the value immediately.
	Invalidate()
}

// Option applies a configuration option to an Entry.
type Option func(*options)

type options struct {
	ttl   time.Duration
	clock Clock
}

// WithTTL sets the freshness window. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock injects the time source.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Entry is the in-memory TTL implementation. The value and its expiry are
// replaced together under one lock.
type Entry[T any] struct {
	mu      sync.RWMutex
	data    T
	expires time.Time
	ttl     time.Duration
	now     Clock
}

var _ TTL[int] = (*Entry[int])(nil)

// NewEntry creates an empty entry. It starts expired.
func NewEntry[T any](opts ...Option) *Entry[T] {
	o := options{ttl: DefaultTTL, clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Entry[T]{ttl: o.ttl, now: o.clock}
}

// Get returns the cached value if the expiry is still in the future.
func (e *Entry[T]) Get() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.expires.IsZero() || !e.now().Before(e.expires) {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Set stores v with a fresh expiry.
func (e *Entry[T]) Set(v T) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.data = v
	e.expires = e.now().Add(e.ttl)
}

// Invalidate clears the value and its expiry.
func (e *Entry[T]) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	var zero T
	e.data = zero
	e.expires = time.Time{}
}

// TTL returns the configured freshness window.
func (e *Entry[T]) TTL() time.Duration {
	return e.ttl
}
