// Package config defines service configuration and its loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreDriver selects the document source: mongo or file.
	StoreDriver   string `koanf:"store_driver"`
	MongoURI      string `koanf:"mongo_uri"`
	MongoDatabase string `koanf:"mongo_database"`
	// FixturesDir holds <Collection>.json files for the file driver.
	FixturesDir string `koanf:"fixtures_dir"`

	// RedisAddr enables the shared display-name cache when set.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// CacheTTLSeconds is the freshness window of ranking results.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
	// WarmIntervalSeconds pre-computes the Academy ranking; 0 disables it.
	WarmIntervalSeconds int `koanf:"warm_interval_seconds"`
	// NameCacheTTLHours is how long a resolved display name is trusted.
	NameCacheTTLHours int `koanf:"name_cache_ttl_hours"`

	MojangSessionURL   string  `koanf:"mojang_session_url"`
	MojangRPS          float64 `koanf:"mojang_rps"`
	MojangBurst        int     `koanf:"mojang_burst"`
	ResolveConcurrency int     `koanf:"resolve_concurrency"`

	// MaxLeaderboardLimit caps the limit query parameter.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
	// TotalSpecies is the denominator of Pokédex completion.
	TotalSpecies int `koanf:"total_species"`

	// BugsnagAPIKey enables error reporting when set.
	BugsnagAPIKey string `koanf:"bugsnag_api_key"`
	Environment   string `koanf:"environment"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		StoreDriver:         "mongo",
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "cobblemon",
		FixturesDir:         "fixtures",
		CacheTTLSeconds:     300,
		WarmIntervalSeconds: 0,
		NameCacheTTLHours:   7 * 24,
		MojangSessionURL:    "https://sessionserver.mojang.com/session/minecraft/profile/",
		MojangRPS:           5,
		MojangBurst:         10,
		ResolveConcurrency:  8,
		MaxLeaderboardLimit: 500,
		TotalSpecies:        1025,
		Environment:         "development",
	}
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// WarmInterval returns WarmIntervalSeconds as a duration.
func (c *Config) WarmInterval() time.Duration {
	return time.Duration(c.WarmIntervalSeconds) * time.Second
}

// NameFreshness returns NameCacheTTLHours as a duration.
func (c *Config) NameFreshness() time.Duration {
	return time.Duration(c.NameCacheTTLHours) * time.Hour
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != "mongo" && c.StoreDriver != "file":
		return fmt.Errorf("%w: store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.WarmIntervalSeconds < 0:
		return fmt.Errorf("%w: warm_interval_seconds must not be negative", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	case c.TotalSpecies <= 0:
		return fmt.Errorf("%w: total_species must be positive", ErrInvalidConfig)
	case c.ResolveConcurrency <= 0:
		return fmt.Errorf("%w: resolve_concurrency must be positive", ErrInvalidConfig)
	}
	return nil
}
