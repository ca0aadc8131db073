// Package skills aggregates per-environment ratings into cognitive-skill
// scores using weighted contribution.
package skills

import (
	"github.com/arenalab/skillboard/internal/domain/model"
)

// Canonical skill set. Order is significant: downstream charts key their
// axes on it, so it must be stable across calls.
var canonicalSkills = []string{
	"Strategic Planning",
	"Logical Reasoning",
	"Memory Recall",
	"Pattern Recognition",
	"Spatial Thinking",
	"Theory of Mind",
	"Bluffing",
	"Persuasion",
	"Uncertainty Estimation",
	"Adaptability",
}

// CanonicalSkills returns a copy of the canonical skill set in display order.
func CanonicalSkills() []string {
	out := make([]string, len(canonicalSkills))
	copy(out, canonicalSkills)
	return out
}

// Contribution records how one environment feeds into a skill score.
// RelativeWeight = Weight / total weight for that skill; contributions of a
// skill sum to 1 whenever the total weight is positive.
type Contribution struct {
	Environment    string  `json:"environment"`
	Rating         float64 `json:"rating"`
	Weight         float64 `json:"weight"`
	RelativeWeight float64 `json:"relative_weight"`
}

// Score is the aggregate rating for one skill with its breakdown.
type Score struct {
	Skill         string         `json:"skill"`
	Rating        float64        `json:"rating"`
	TotalWeight   float64        `json:"total_weight"`
	Contributions []Contribution `json:"contributions"`
}

// Aggregator maps environment performance rows onto the skill set.
// The zero-configured aggregator uses the canonical set and all rows.
type Aggregator struct {
	skillSet     []string
	balancedOnly bool
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		skillSet: canonicalSkills,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes one Score per skill, in skill-set order. It is a pure
// function of its input: malformed or unrecognized tags are skipped, never
// reported, and empty input yields all-zero scores.
func (a *Aggregator) Aggregate(records []model.EnvironmentPerformance) []Score {
	index := make(map[string]int, len(a.skillSet))
	scores := make([]Score, len(a.skillSet))
	for i, name := range a.skillSet {
		index[name] = i
		scores[i] = Score{Skill: name}
	}

	for _, rec := range DedupeEnvironments(records) {
		if a.balancedOnly && !rec.IsBalancedSubset {
			continue
		}
		for _, tag := range rec.Tags {
			if tag.Weight <= 0 {
				continue
			}
			i, ok := index[tag.Skill]
			if !ok {
				continue
			}
			s := &scores[i]
			s.Rating += rec.Rating * tag.Weight // weighted sum until normalized below
			s.TotalWeight += tag.Weight
			s.Contributions = append(s.Contributions, Contribution{
				Environment: rec.Environment,
				Rating:      rec.Rating,
				Weight:      tag.Weight,
			})
		}
	}

	for i := range scores {
		s := &scores[i]
		if s.TotalWeight <= 0 {
			s.Rating = 0
			continue
		}
		s.Rating /= s.TotalWeight
		for j := range s.Contributions {
			s.Contributions[j].RelativeWeight = s.Contributions[j].Weight / s.TotalWeight
		}
	}
	return scores
}

// DedupeEnvironments collapses duplicate environment names, keeping the row
// with the most games played. On a tie the later row wins, matching upstream
// "latest write" behavior.
func DedupeEnvironments(records []model.EnvironmentPerformance) []model.EnvironmentPerformance {
	byName := make(map[string]int, len(records))
	out := make([]model.EnvironmentPerformance, 0, len(records))
	for _, rec := range records {
		if i, ok := byName[rec.Environment]; ok {
			if rec.GamesPlayed >= out[i].GamesPlayed {
				out[i] = rec
			}
			continue
		}
		byName[rec.Environment] = len(out)
		out = append(out, rec)
	}
	return out
}
