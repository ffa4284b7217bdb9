package repository

import "time"

const (
	defaultMongoURI      = "mongodb://localhost:27017"
	defaultDatabase      = "cobblemon"
	defaultFixturesDir   = "fixtures"
	defaultQueryTimeout  = 10 * time.Second
	defaultConnectTimeout = 10 * time.Second
)

type options struct {
	mongoURI       string
	database       string
	fixturesDir    string
	queryTimeout   time.Duration
	connectTimeout time.Duration
}

func defaultOptions() options {
	return options{
		mongoURI:       defaultMongoURI,
		database:       defaultDatabase,
		fixturesDir:    defaultFixturesDir,
		queryTimeout:   defaultQueryTimeout,
		connectTimeout: defaultConnectTimeout,
	}
}

// Option applies a configuration option to Open.
type Option func(*options)

// WithMongoURI sets the Mongo connection string.
func WithMongoURI(uri string) Option {
	return func(o *options) {
		if uri != "" {
			o.mongoURI = uri
		}
	}
}

// WithDatabase sets the Mongo database name.
func WithDatabase(name string) Option {
	return func(o *options) {
		if name != "" {
			o.database = name
		}
	}
}

// WithFixturesDir sets the directory read by the file driver.
func WithFixturesDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.fixturesDir = dir
		}
	}
}

// WithQueryTimeout bounds single-document lookups.
func WithQueryTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.queryTimeout = d
		}
	}
}

// WithConnectTimeout bounds the initial connect and ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}
