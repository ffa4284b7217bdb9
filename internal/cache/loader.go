package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/okian/academy/pkg/metrics"
)

// LoadFunc computes a fresh value.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Loader serves a TTL value and recomputes it on a miss. Concurrent misses
// share one computation.
type Loader[T any] struct {
	key   string
	ttl   TTL[T]
	load  LoadFunc[T]
	group singleflight.Group
}

// NewLoader wraps ttl with load. key labels metrics and the in-flight group.
func NewLoader[T any](key string, ttl TTL[T], load LoadFunc[T]) (*Loader[T], error) {
	if load == nil {
		return nil, ErrNilLoader
	}
	if ttl == nil {
		ttl = NewEntry[T]()
	}
	return &Loader[T]{key: key, ttl: ttl, load: load}, nil
}

// Get returns the cached value or computes, stores and returns a new one.
// Errors are not cached.
func (l *Loader[T]) Get(ctx context.Context) (T, error) {
	if v, ok := l.ttl.Get(); ok {
		metrics.RecordCacheLookup(l.key, true)
		return v, nil
	}
	metrics.RecordCacheLookup(l.key, false)

	res, err, _ := l.group.Do(l.key, func() (any, error) {
		// Another caller may have filled the entry while we queued.
		if v, ok := l.ttl.Get(); ok {
			return v, nil
		}
		v, err := l.load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		l.ttl.Set(v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}

// Refresh recomputes unconditionally and stores the result.
func (l *Loader[T]) Refresh(ctx context.Context) (T, error) {
	l.ttl.Invalidate()
	return l.Get(ctx)
}

// Invalidate drops the cached value.
func (l *Loader[T]) Invalidate() {
	l.ttl.Invalidate()
}

// Key returns the loader's metrics key.
func (l *Loader[T]) Key() string {
	return l.key
}
