package repository

import (
	"context"
	"sync"
	"time"

	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/pkg/metrics"
)

// leaderboard is an immutable rank snapshot over the entities table,
// rebuilt lazily after writes. Dataset sizes are bounded (hundreds of
// entities), so a full rebuild per write burst is cheaper than maintaining
// an ordered structure incrementally.
//
// Ordering: rating DESC, then entity key ASC for determinism.
type leaderboard struct {
	mu        sync.RWMutex
	dirty     bool
	entries   []Entry
	rankByKey map[string]int
}

func newLeaderboard() *leaderboard {
	return &leaderboard{dirty: true, rankByKey: map[string]int{}}
}

func (l *leaderboard) invalidate() {
	l.mu.Lock()
	l.dirty = true
	l.mu.Unlock()
}

// refresh rebuilds the snapshot from the store when marked dirty.
// Leaderboard rank ignores entity-list filters: every tracked entity holds
// a rank even when hidden from the current page.
func (l *leaderboard) refresh(ctx context.Context, s *SQLiteStore) error {
	l.mu.RLock()
	dirty := l.dirty
	l.mu.RUnlock()
	if !dirty {
		return nil
	}

	start := time.Now()
	entities, err := s.Entities(ctx, EntityFilter{IncludeInactive: true, IncludeSmall: true})
	if err != nil {
		return err
	}

	entries := make([]Entry, len(entities))
	rankByKey := make(map[string]int, len(entities))
	for i, e := range entities {
		entries[i] = Entry{
			Rank:        i + 1,
			Entity:      e.ID.Key(),
			DisplayName: e.DisplayName,
			Rating:      e.Rating,
		}
		rankByKey[e.ID.Key()] = i
	}

	l.mu.Lock()
	l.entries = entries
	l.rankByKey = rankByKey
	l.dirty = false
	l.mu.Unlock()

	metrics.RecordLeaderboardRebuild(float64(time.Since(start).Milliseconds()))
	metrics.UpdateTotalEntities(len(entries))
	return nil
}

func (l *leaderboard) rank(id model.EntityID) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.rankByKey[id.Key()]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return l.entries[i], nil
}

func (l *leaderboard) topN(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[:n])
	return out
}
