// Package identity resolves player identities to display names.
package identity

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/academy/pkg/logger"
	"github.com/okian/academy/pkg/metrics"
)

// UnknownTrainer is shown when no name can be resolved.
const UnknownTrainer = "Unknown Trainer"

// DefaultFreshness is how long a cached name is trusted without a lookup.
const DefaultFreshness = 7 * 24 * time.Hour

// Resolver maps an identity to a display name. It never fails.
type Resolver interface {
	ResolveDisplayName(ctx context.Context, uuid string) string
}

// ProfileSource fetches the authoritative name for an identity.
type ProfileSource interface {
	ProfileName(ctx context.Context, uuid string) (string, error)
}

// NameResolver resolves through a NameCache backed by a ProfileSource.
type NameResolver struct {
	cache     NameCache
	source    ProfileSource
	freshness time.Duration
	now       func() time.Time
	log       logger.Logger
	group     singleflight.Group
}

var _ Resolver = (*NameResolver)(nil)

// Option applies a configuration option to the NameResolver.
type Option func(*NameResolver)

// WithCache sets the name cache.
func WithCache(c NameCache) Option {
	return func(r *NameResolver) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithSource sets the upstream profile source.
func WithSource(s ProfileSource) Option {
	return func(r *NameResolver) {
		if s != nil {
			r.source = s
		}
	}
}

// WithFreshness sets how long cached names skip the upstream lookup.
func WithFreshness(d time.Duration) Option {
	return func(r *NameResolver) {
		if d > 0 {
			r.freshness = d
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(r *NameResolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *NameResolver) {
		if l != nil {
			r.log = l
		}
	}
}

// NewNameResolver creates a resolver. Without options it uses an in-memory
// cache and the public Mojang session server.
func NewNameResolver(opts ...Option) *NameResolver {
	r := &NameResolver{
		freshness: DefaultFreshness,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryNameCache()
	}
	if r.source == nil {
		r.source = NewMojangClient()
	}
	if r.log == nil {
		r.log = logger.Get().Named("identity")
	}
	return r
}

// ResolveDisplayName returns a fresh cached name, else the upstream name,
// else the last cached name, else UnknownTrainer.
func (r *NameResolver) ResolveDisplayName(ctx context.Context, uuid string) string {
	// the lookup is shared by every waiter for uuid
	shared := context.WithoutCancel(ctx)
	v, _, _ := r.group.Do(uuid, func() (any, error) {
		return r.resolve(shared, uuid), nil
	})
	name, _ := v.(string)
	if name == "" {
		return UnknownTrainer
	}
	return name
}

func (r *NameResolver) resolve(ctx context.Context, uuid string) string {
	cached, found, err := r.cache.Lookup(ctx, uuid)
	if err != nil {
		r.log.Warn(ctx, "name cache lookup failed", logger.String("uuid", uuid), logger.Error(err))
	}
	if found && r.now().Sub(cached.UpdatedAt) < r.freshness {
		metrics.RecordNameResolution(metrics.ResolveCached)
		return cached.Name
	}

	start := r.now()
	name, err := r.source.ProfileName(ctx, uuid)
	metrics.RecordNameResolveLatency(r.now().Sub(start))
	switch {
	case err == nil:
		metrics.RecordNameResolution(metrics.ResolveFetched)
		if serr := r.cache.Store(ctx, uuid, NameRecord{Name: name, UpdatedAt: r.now().UTC()}); serr != nil {
			r.log.Warn(ctx, "name cache store failed", logger.String("uuid", uuid), logger.Error(serr))
		}
		return name
	case errors.Is(err, ErrNoProfile):
		metrics.RecordNameResolution(metrics.ResolveNoUser)
		r.log.Warn(ctx, "uuid not found on session server", logger.String("uuid", uuid))
	default:
		metrics.RecordNameResolution(metrics.ResolveFailed)
		r.log.Error(ctx, "failed to resolve username", logger.String("uuid", uuid), logger.Error(err))
	}

	if found && cached.Name != "" {
		metrics.RecordNameResolution(metrics.ResolveFallback)
		return cached.Name
	}
	return UnknownTrainer
}
