package api

// serverConfig holds tunables applied at route construction time.
type serverConfig struct {
	maxLeaderboardLimit int
	maxHistoryEntities  int
	pageSize            int
}

// Option configures the API server.
type Option func(*serverConfig)

// WithMaxLeaderboardLimit caps the limit accepted by GET /leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxLeaderboardLimit = n
		}
	}
}

// WithMaxHistoryEntities caps how many ids GET /history accepts.
func WithMaxHistoryEntities(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxHistoryEntities = n
		}
	}
}

// WithPageSize sets the slice size used by GET /entities pagination.
func WithPageSize(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.pageSize = n
		}
	}
}
