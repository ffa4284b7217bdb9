package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/okian/academy/internal/adapters/http/api"
	"github.com/okian/academy/internal/adapters/http/site"
	"github.com/okian/academy/internal/adapters/http/swagger"
	"github.com/okian/academy/internal/adapters/identity"
	"github.com/okian/academy/internal/adapters/repository"
	app "github.com/okian/academy/internal/app"
	"github.com/okian/academy/internal/config"
	"github.com/okian/academy/pkg/logger"
	"github.com/okian/academy/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
	mojangTimeout         = 5 * time.Second
)

func main() {
	// A missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "academy exited", logger.Error(err), logger.Stack(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	reporter := configureBugsnag(cfg)

	store, err := repository.Open(ctx, cfg.StoreDriver,
		repository.WithMongoURI(cfg.MongoURI),
		repository.WithDatabase(cfg.MongoDatabase),
		repository.WithFixturesDir(cfg.FixturesDir),
	)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn(ctx, "store close failed", logger.Error(err))
		}
	}()

	resolver, closeResolver, err := newResolver(ctx, cfg, log.Named("identity"))
	if err != nil {
		return err
	}
	defer closeResolver()

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithResolver(resolver),
		app.WithCacheTTL(cfg.CacheTTL()),
		app.WithWarmInterval(cfg.WarmInterval()),
		app.WithResolveConcurrency(cfg.ResolveConcurrency),
		app.WithTotalSpecies(cfg.TotalSpecies),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, reporter),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// newMux wires every route: root banner, API docs and the business API.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, reporter api.Reporter) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)

	opts := []api.Option{
		api.WithMaxLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(logger.Get().Named("api")),
	}
	if reporter != nil {
		opts = append(opts, api.WithReporter(reporter))
	}
	api.NewServer(svc, svc, opts...).Register(ctx, mux)
	return mux
}

// newResolver builds the display-name resolver. With redis_addr set, names
// are cached in Redis and shared across instances.
func newResolver(ctx context.Context, cfg *config.Config, log logger.Logger) (identity.Resolver, func(), error) {
	source := identity.NewMojangClient(
		identity.WithBaseURL(cfg.MojangSessionURL),
		identity.WithHTTPClient(&http.Client{Timeout: mojangTimeout}),
		identity.WithRateLimit(cfg.MojangRPS, cfg.MojangBurst),
	)
	opts := []identity.Option{
		identity.WithSource(source),
		identity.WithFreshness(cfg.NameFreshness()),
		identity.WithLogger(log),
	}

	closer := func() {}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cache := identity.NewRedisNameCache(client)
		if err := cache.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, closer, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		opts = append(opts, identity.WithCache(cache))
		closer = func() { _ = client.Close() }
		log.Info(ctx, "using redis name cache", logger.String("addr", cfg.RedisAddr))
	}
	return identity.NewNameResolver(opts...), closer, nil
}

// configureBugsnag enables error reporting when an API key is configured.
func configureBugsnag(cfg *config.Config) api.Reporter {
	if cfg.BugsnagAPIKey == "" {
		return nil
	}
	bugsnag.Configure(bugsnag.Configuration{
		APIKey:          cfg.BugsnagAPIKey,
		ReleaseStage:    cfg.Environment,
		ProjectPackages: []string{"main", "github.com/okian/academy/*"},
	})
	return api.BugsnagReporter{}
}

// startSystemMetricsUpdater periodically refreshes the system gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateSystemMetrics()
		}
	}
}
