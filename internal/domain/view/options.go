package view

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithDevice sets the interaction device kind.
func WithDevice(d Device) Option {
	return func(c *Controller) {
		c.device = d
	}
}

// WithPageSize sets how many entities one page holds.
func WithPageSize(size int) Option {
	return func(c *Controller) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithPrefsStore injects the preference persistence port.
func WithPrefsStore(s PrefsStore) Option {
	return func(c *Controller) {
		if s != nil {
			c.prefs = s
		}
	}
}
