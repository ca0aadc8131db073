// Package repository persists entities, environment performance and rating
// snapshots, and serves the ranked leaderboard reads.
package repository

import (
	"context"
	"time"

	"github.com/arenalab/skillboard/internal/domain/model"
)

// Entry represents a leaderboard row with its computed rank.
type Entry struct {
	Rank        int     `json:"rank"`
	Entity      string  `json:"entity"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
}

// EntityFilter narrows the entity list the pagination operates on.
type EntityFilter struct {
	StandardOnly    bool
	IncludeInactive bool
	IncludeSmall    bool
}

// Store provides read/write access to performance and rating state.
type Store interface {
	// Performance returns one entity's rows, one per environment.
	Performance(ctx context.Context, id model.EntityID) ([]model.EnvironmentPerformance, error)

	// History returns snapshots for the given entities inside the lookback
	// window ending at now, ordered by interval start ascending.
	History(ctx context.Context, ids []model.EntityID, r model.TimeRange, now time.Time) ([]model.RatingSnapshot, error)

	// Entities returns the filtered entity list, rating descending.
	Entities(ctx context.Context, f EntityFilter) ([]model.Entity, error)

	// UpsertEntity creates or replaces an entity row.
	UpsertEntity(ctx context.Context, e model.Entity) error

	// UpsertPerformance creates or replaces one environment row.
	UpsertPerformance(ctx context.Context, id model.EntityID, rec model.EnvironmentPerformance) error

	// InsertSnapshot appends a rating snapshot and moves the entity's
	// leaderboard rating to the snapshot mean.
	InsertSnapshot(ctx context.Context, s model.RatingSnapshot) error

	// Rank returns the current rank entry for an entity.
	// Returns ErrNotFound if the entity is unknown.
	Rank(ctx context.Context, id model.EntityID) (Entry, error)

	// TopN returns the top-N entries ordered by rating desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of tracked entities.
	Count(ctx context.Context) int

	Close() error
}
