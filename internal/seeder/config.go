package seeder

import "time"

// Config holds configuration for the seeding run.
type Config struct {
	BaseURL            string        // Base URL of the service
	NumEntities        int           // Number of entities to generate
	SnapshotsPerEntity int           // Snapshots per entity, one per hour backwards
	Workers            int           // Number of concurrent submitters
	Timeout            time.Duration // HTTP request timeout
	Verbose            bool          // Enable verbose logging
}

// Snapshot mirrors the POST /snapshots wire schema.
type Snapshot struct {
	SnapshotID    string  `json:"snapshot_id"`
	Entity        string  `json:"entity"`
	IntervalStart string  `json:"interval_start"`
	Mean          float64 `json:"mean"`
	Uncertainty   float64 `json:"uncertainty"`
}

// AckResponse represents the response from snapshot submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Entry represents a leaderboard entry.
type Entry struct {
	Rank        int     `json:"rank"`
	Entity      string  `json:"entity"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
}

// Stats holds seeding statistics.
type Stats struct {
	EntitiesGenerated  int
	SnapshotsGenerated int
	SnapshotsSubmitted int
	SnapshotsAccepted  int
	SnapshotsDuplicate int
	SnapshotsFailed    int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
