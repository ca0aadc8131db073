package repository

// storeConfig holds Open-time configuration.
type storeConfig struct {
	maxOpenConns int
}

// Option applies a configuration option to the SQLite store.
type Option func(*storeConfig)

// WithMaxOpenConns bounds the connection pool. SQLite serializes writers,
// so a small pool is usually enough.
func WithMaxOpenConns(n int) Option {
	return func(c *storeConfig) {
		if n > 0 {
			c.maxOpenConns = n
		}
	}
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{maxOpenConns: 4}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
