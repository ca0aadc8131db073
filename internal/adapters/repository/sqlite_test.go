package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalab/skillboard/internal/adapters/repository"
	"github.com/arenalab/skillboard/internal/domain/model"
)

func openStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	s, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "skillboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Performance(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	id := model.EntityID{ModelID: "model-a", HumanID: "op-1"}

	rec := model.EnvironmentPerformance{
		Environment:     "Poker",
		Rating:          30.5,
		GamesPlayed:     42,
		WinRate:         0.62,
		AvgDecisionTime: 3.4,
		Wins:            26, Draws: 2, Losses: 14,
		Tags: []model.SkillTag{
			{Skill: "Bluffing", Weight: 2},
			{Skill: "Persuasion", Weight: 1},
		},
		IsBalancedSubset: true,
	}
	require.NoError(t, s.UpsertPerformance(ctx, id, rec))

	got, err := s.Performance(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])

	t.Run("unknown entity yields empty, not error", func(t *testing.T) {
		got, err := s.Performance(ctx, model.EntityID{ModelID: "nobody"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sparse tag slots read back as missing", func(t *testing.T) {
		bare := model.EnvironmentPerformance{Environment: "NimGame", Rating: 12}
		require.NoError(t, s.UpsertPerformance(ctx, id, bare))

		got, err := s.Performance(ctx, id)
		require.NoError(t, err)
		require.Len(t, got, 2)
		// Rows come back environment-ordered.
		assert.Equal(t, "NimGame", got[0].Environment)
		assert.Nil(t, got[0].Tags)
		assert.False(t, got[0].IsBalancedSubset)
	})

	t.Run("upsert replaces the existing row", func(t *testing.T) {
		rec.Rating = 33
		rec.GamesPlayed = 50
		require.NoError(t, s.UpsertPerformance(ctx, id, rec))

		got, err := s.Performance(ctx, id)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 33.0, got[1].Rating)
		assert.Equal(t, 50, got[1].GamesPlayed)
	})
}

func TestSQLiteStore_History(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	idA := model.EntityID{ModelID: "model-a", HumanID: "op-1"}
	idB := model.EntityID{ModelID: "model-b", HumanID: "op-2"}

	insert := func(snapID string, id model.EntityID, ago time.Duration, mu, sigma float64) {
		t.Helper()
		require.NoError(t, s.InsertSnapshot(ctx, model.RatingSnapshot{
			SnapshotID:    snapID,
			Entity:        id,
			IntervalStart: now.Add(-ago),
			Mean:          mu,
			Uncertainty:   sigma,
		}))
	}

	insert("s1", idA, 40*time.Hour, 24, 8)
	insert("s2", idA, 10*time.Hour, 27, 7)
	insert("s3", idB, 6*24*time.Hour, 30, 5)
	insert("s4", idB, 2*time.Hour, 31, 4)

	t.Run("48h window excludes older snapshots", func(t *testing.T) {
		got, err := s.History(ctx, []model.EntityID{idA, idB}, model.Last48H, now)
		require.NoError(t, err)
		require.Len(t, got, 3)
		// Ascending by interval start.
		assert.Equal(t, "s1", got[0].SnapshotID)
		assert.Equal(t, "s2", got[1].SnapshotID)
		assert.Equal(t, "s4", got[2].SnapshotID)
	})

	t.Run("7d window includes the older entity-B snapshot", func(t *testing.T) {
		got, err := s.History(ctx, []model.EntityID{idA, idB}, model.Last7D, now)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("only requested entities are returned", func(t *testing.T) {
		got, err := s.History(ctx, []model.EntityID{idB}, model.Last30D, now)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, snap := range got {
			assert.Equal(t, idB, snap.Entity)
		}
	})

	t.Run("no ids short-circuits", func(t *testing.T) {
		got, err := s.History(ctx, nil, model.Last48H, now)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("timestamps round-trip to UTC hour precision and beyond", func(t *testing.T) {
		got, err := s.History(ctx, []model.EntityID{idA}, model.Last48H, now)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.True(t, got[0].IntervalStart.Equal(now.Add(-40*time.Hour)))
	})
}

func TestSQLiteStore_HistorySubsecondOrdering(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	id := model.EntityID{ModelID: "model-a", HumanID: "op-1"}

	// A whole second and a fractional one inside it. Trimmed-zero
	// encodings ("…00Z" vs "…00.5Z") sort these backwards as TEXT.
	base := now.Add(-3 * time.Hour)
	insert := func(snapID string, at time.Time, mu float64) {
		t.Helper()
		require.NoError(t, s.InsertSnapshot(ctx, model.RatingSnapshot{
			SnapshotID:    snapID,
			Entity:        id,
			IntervalStart: at,
			Mean:          mu,
			Uncertainty:   5,
		}))
	}
	insert("later", base.Add(500*time.Millisecond), 31)
	insert("earlier", base, 26)

	got, err := s.History(ctx, []model.EntityID{id}, model.Last48H, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "earlier", got[0].SnapshotID)
	assert.Equal(t, "later", got[1].SnapshotID)
	assert.True(t, got[1].IntervalStart.After(got[0].IntervalStart))

	t.Run("cutoff compares fractional seconds correctly", func(t *testing.T) {
		edge := now.Add(-model.Last48H.Duration())
		insert("on-edge-frac", edge.Add(250*time.Millisecond), 20)
		insert("before-edge", edge.Add(-time.Second), 19)

		got, err := s.History(ctx, []model.EntityID{id}, model.Last48H, now)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "on-edge-frac", got[0].SnapshotID)
	})
}

func TestSQLiteStore_Leaderboard(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	seed := []model.Entity{
		{ID: model.EntityID{ModelID: "alpha"}, DisplayName: "Alpha", Rating: 31, IsStandard: true, IsActive: true},
		{ID: model.EntityID{ModelID: "bravo"}, DisplayName: "Bravo", Rating: 28, IsStandard: true, IsActive: true, IsSmall: true},
		{ID: model.EntityID{ModelID: "charlie"}, DisplayName: "Charlie", Rating: 35, IsActive: false},
	}
	for _, e := range seed {
		require.NoError(t, s.UpsertEntity(ctx, e))
	}

	t.Run("TopN orders by rating descending", func(t *testing.T) {
		top, err := s.TopN(ctx, 10)
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "charlie#", top[0].Entity)
		assert.Equal(t, 1, top[0].Rank)
		assert.Equal(t, "alpha#", top[1].Entity)
		assert.Equal(t, "bravo#", top[2].Entity)
	})

	t.Run("TopN truncates to n", func(t *testing.T) {
		top, err := s.TopN(ctx, 1)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, "charlie#", top[0].Entity)
	})

	t.Run("TopN rejects an invalid limit", func(t *testing.T) {
		_, err := s.TopN(ctx, 0)
		assert.ErrorIs(t, err, repository.ErrInvalidLimit)
	})

	t.Run("Rank resolves a known entity", func(t *testing.T) {
		entry, err := s.Rank(ctx, model.EntityID{ModelID: "bravo"})
		require.NoError(t, err)
		assert.Equal(t, 3, entry.Rank)
		assert.Equal(t, 28.0, entry.Rating)
	})

	t.Run("Rank reports unknown entities", func(t *testing.T) {
		_, err := s.Rank(ctx, model.EntityID{ModelID: "delta"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("snapshot inserts move the rating and the rank", func(t *testing.T) {
		require.NoError(t, s.InsertSnapshot(ctx, model.RatingSnapshot{
			SnapshotID:    "bump",
			Entity:        model.EntityID{ModelID: "bravo"},
			IntervalStart: time.Now().UTC(),
			Mean:          40,
			Uncertainty:   3,
		}))
		entry, err := s.Rank(ctx, model.EntityID{ModelID: "bravo"})
		require.NoError(t, err)
		assert.Equal(t, 1, entry.Rank)
		assert.Equal(t, 40.0, entry.Rating)
	})

	t.Run("Count tracks entities", func(t *testing.T) {
		assert.Equal(t, 3, s.Count(ctx))
	})
}

func TestSQLiteStore_Entities(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	seed := []model.Entity{
		{ID: model.EntityID{ModelID: "std-active"}, Rating: 30, IsStandard: true, IsActive: true},
		{ID: model.EntityID{ModelID: "custom-active"}, Rating: 29, IsActive: true},
		{ID: model.EntityID{ModelID: "std-idle"}, Rating: 28, IsStandard: true},
		{ID: model.EntityID{ModelID: "small-active"}, Rating: 27, IsStandard: true, IsActive: true, IsSmall: true},
	}
	for _, e := range seed {
		require.NoError(t, s.UpsertEntity(ctx, e))
	}

	tests := []struct {
		name   string
		filter repository.EntityFilter
		want   []string
	}{
		{
			name:   "default hides inactive and small",
			filter: repository.EntityFilter{},
			want:   []string{"std-active", "custom-active"},
		},
		{
			name:   "standard only",
			filter: repository.EntityFilter{StandardOnly: true},
			want:   []string{"std-active"},
		},
		{
			name:   "include inactive",
			filter: repository.EntityFilter{IncludeInactive: true},
			want:   []string{"std-active", "custom-active", "std-idle"},
		},
		{
			name:   "include small",
			filter: repository.EntityFilter{IncludeSmall: true},
			want:   []string{"std-active", "custom-active", "small-active"},
		},
		{
			name:   "everything",
			filter: repository.EntityFilter{IncludeInactive: true, IncludeSmall: true},
			want:   []string{"std-active", "custom-active", "std-idle", "small-active"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Entities(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, e := range got {
				names[i] = e.ID.ModelID
			}
			assert.Equal(t, tt.want, names)
		})
	}
}
