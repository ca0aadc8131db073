package skills

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithBalancedOnly restricts aggregation to environments flagged as part of
// the balanced subset, the curated environments considered fair for
// cross-skill comparison.
func WithBalancedOnly(balanced bool) Option {
	return func(a *Aggregator) {
		a.balancedOnly = balanced
	}
}

// WithSkillSet overrides the canonical skill set. The slice order becomes
// the output order. Empty input is ignored.
func WithSkillSet(set []string) Option {
	return func(a *Aggregator) {
		if len(set) == 0 {
			return
		}
		copied := make([]string, len(set))
		copy(copied, set)
		a.skillSet = copied
	}
}
