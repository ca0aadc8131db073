// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// EntityID identifies a tracked entity on the leaderboard. The same model
// can be paired with different human operators, so both halves are part of
// the identity. Either half may be empty.
type EntityID struct {
	ModelID string
	HumanID string
}

// Key returns the canonical wire form "<model>#<human>".
func (id EntityID) Key() string {
	return id.ModelID + "#" + id.HumanID
}

// IsZero reports whether both halves are empty.
func (id EntityID) IsZero() bool {
	return id.ModelID == "" && id.HumanID == ""
}

// ParseEntityID parses the wire form produced by Key. Input without a '#'
// separator is treated as a bare model id.
func ParseEntityID(s string) EntityID {
	model, human, ok := strings.Cut(s, "#")
	if !ok {
		return EntityID{ModelID: s}
	}
	return EntityID{ModelID: model, HumanID: human}
}

// SkillTag associates a named cognitive dimension with a weight describing
// how strongly an environment exercises it.
type SkillTag struct {
	Skill  string
	Weight float64
}

// MaxSkillTags caps the number of tag slots per environment.
const MaxSkillTags = 5

// EnvironmentPerformance is one entity's observed performance in one game
// environment. Environment names are unique per entity; upstream duplicates
// are resolved by keeping the row with the most games played.
type EnvironmentPerformance struct {
	Environment      string
	Rating           float64
	GamesPlayed      int
	WinRate          float64 // in [0,1]
	AvgDecisionTime  float64 // seconds
	Wins             int
	Draws            int
	Losses           int
	Tags             []SkillTag // at most MaxSkillTags entries
	IsBalancedSubset bool
}

// RatingSnapshot is one observed point-in-time rating for an entity.
type RatingSnapshot struct {
	SnapshotID    string // unique id for ingest idempotency
	Entity        EntityID
	IntervalStart time.Time
	Mean          float64
	Uncertainty   float64 // standard-deviation-like, >= 0
}

// Entity is a leaderboard row: identity plus the attributes the list
// filters operate on.
type Entity struct {
	ID          EntityID
	DisplayName string
	Rating      float64
	IsStandard  bool
	IsActive    bool
	IsSmall     bool
}

// TimeRange selects how far back a rating-history query reaches.
type TimeRange int

const (
	Last48H TimeRange = iota
	Last7D
	Last30D
)

// Duration returns the lookback window for the range.
func (r TimeRange) Duration() time.Duration {
	switch r {
	case Last7D:
		return 7 * 24 * time.Hour
	case Last30D:
		return 30 * 24 * time.Hour
	default:
		return 48 * time.Hour
	}
}

// String returns the wire form of the range.
func (r TimeRange) String() string {
	switch r {
	case Last7D:
		return "7d"
	case Last30D:
		return "30d"
	default:
		return "48h"
	}
}

// ParseTimeRange maps a wire form to a TimeRange. Unknown input falls back
// to the shortest window, ok is false.
func ParseTimeRange(s string) (TimeRange, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "48h":
		return Last48H, true
	case "7d":
		return Last7D, true
	case "30d":
		return Last30D, true
	default:
		return Last48H, false
	}
}
