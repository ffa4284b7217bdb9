// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/okian/academy/internal/adapters/identity"
	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/internal/cache"
	"github.com/okian/academy/internal/domain/scan"
	"github.com/okian/academy/internal/domain/scoring"
	"github.com/okian/academy/pkg/logger"
	"github.com/okian/academy/pkg/metrics"
)

// Cache keys, also used as metric labels.
const (
	academyCacheKey = "academy"
	scanCacheKey    = "scan"
)

const (
	defaultResolveConcurrency = 8
	defaultTotalSpecies       = 1025
	statsTimeout              = 5 * time.Second
)

// Service implements the API dependencies for the Academy ranking.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.Store
	resolver identity.Resolver
	scorer   *scoring.Scorer
	academy  *cache.Loader[[]scoring.Entry]
	scans    *cache.Loader[scan.Result]

	// Configuration
	cacheTTL           time.Duration
	clock              cache.Clock
	warmInterval       time.Duration
	resolveConcurrency int
	totalSpecies       int
	weights            map[scoring.Category]float64

	// State
	started   bool
	scheduler gocron.Scheduler

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store.
func WithStore(store *repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithResolver sets the display-name resolver.
func WithResolver(r identity.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheTTL sets how long computed rankings are served from cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithClock injects the time source used by the caches.
func WithClock(clock cache.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithWarmInterval periodically recomputes the Academy ranking. Zero disables it.
func WithWarmInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.warmInterval = d
		}
	}
}

// WithResolveConcurrency bounds concurrent display-name lookups per response.
func WithResolveConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.resolveConcurrency = n
		}
	}
}

// WithTotalSpecies sets the Pokédex completion denominator.
func WithTotalSpecies(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.totalSpecies = n
		}
	}
}

// WithWeights overrides the composite weights.
func WithWeights(w map[scoring.Category]float64) Option {
	return func(s *Service) {
		if len(w) > 0 {
			s.weights = w
		}
	}
}

// New constructs a new Service. Without WithStore it serves an empty
// in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:           cache.DefaultTTL,
		clock:              time.Now,
		resolveConcurrency: defaultResolveConcurrency,
		totalSpecies:       defaultTotalSpecies,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.resolver == nil {
		s.resolver = identity.NewNameResolver(identity.WithLogger(s.logger))
	}

	var scorerOpts []scoring.Option
	if s.weights != nil {
		scorerOpts = append(scorerOpts, scoring.WithWeights(s.weights))
	}
	s.scorer = scoring.NewScorer(scorerOpts...)

	ttlOpts := []cache.Option{cache.WithTTL(s.cacheTTL), cache.WithClock(s.clock)}
	s.academy, _ = cache.NewLoader(academyCacheKey, cache.NewEntry[[]scoring.Entry](ttlOpts...), s.computeAcademy)
	s.scans, _ = cache.NewLoader(scanCacheKey, cache.NewEntry[scan.Result](ttlOpts...), s.computeScan)

	return s
}

// Start starts background jobs.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting academy service...")

	if s.warmInterval > 0 {
		sched, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		job, err := sched.NewJob(
			gocron.DurationJob(s.warmInterval),
			gocron.NewTask(s.warmAcademy),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return fmt.Errorf("schedule warm job: %w", err)
		}
		sched.Start()
		// duration jobs wait one interval before the first run
		if err := job.RunNow(); err != nil {
			s.logger.Warn(ctx, "initial cache warm failed to start", logger.Error(err))
		}
		s.scheduler = sched
	}

	s.started = true
	s.logger.Info(ctx, "academy service started",
		logger.Duration("cacheTTL", s.cacheTTL),
		logger.Duration("warmInterval", s.warmInterval),
		logger.Int("resolveConcurrency", s.resolveConcurrency),
	)

	return nil
}

// Stop gracefully shuts down background jobs.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping academy service...")

	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			s.logger.Warn(context.Background(), "scheduler shutdown failed", logger.Error(err))
		}
		s.scheduler = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "academy service stopped")
}

// warmAcademy recomputes the composite ranking ahead of requests.
func (s *Service) warmAcademy() {
	ctx := context.Background()
	s.scans.Invalidate()
	entries, err := s.academy.Refresh(ctx)
	if err != nil {
		s.logger.Error(ctx, "cache warm failed", logger.Error(err), logger.Stack(err))
		return
	}
	s.logger.Debug(ctx, "academy cache warmed", logger.Int("players", len(entries)))
}

// InvalidateCaches drops every cached ranking.
func (s *Service) InvalidateCaches() {
	s.academy.Invalidate()
	s.scans.Invalidate()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	stats := map[string]interface{}{
		"started":             started,
		"cache_ttl_seconds":   int(s.cacheTTL / time.Second),
		"warm_interval":       s.warmInterval.String(),
		"resolve_concurrency": s.resolveConcurrency,
		"total_species":       s.totalSpecies,
	}

	collections := map[string]int{}
	for _, c := range s.store.Collections() {
		n, err := c.Count(ctx)
		if err != nil {
			s.logger.Warn(ctx, "count failed", logger.String("collection", c.Name()), logger.Error(err))
			continue
		}
		collections[c.Name()] = n
	}
	stats["collections"] = collections

	metrics.UpdateSystemMetrics()
	return stats
}
