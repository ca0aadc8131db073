package history

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithBaseline sets the prior used for entities before their first
// snapshot. Non-negative uncertainty is required; invalid input keeps the
// defaults.
func WithBaseline(mean, uncertainty float64) Option {
	return func(b *Builder) {
		if uncertainty < 0 {
			return
		}
		b.baselineMean = mean
		b.baselineUncertainty = uncertainty
	}
}
