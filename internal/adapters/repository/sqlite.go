package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.

	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/pkg/metrics"
)

// intervalLayout is the fixed-width UTC form interval_start is stored in.
// Zero-padded nanoseconds keep lexicographic TEXT comparison identical to
// chronological order; RFC3339Nano trims trailing zeros and breaks that.
const intervalLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store on a local SQLite database with an in-memory
// leaderboard snapshot rebuilt after writes for O(1) Rank/TopN reads.
type SQLiteStore struct {
	db    *sql.DB
	board *leaderboard
}

// Open opens or creates the SQLite database and applies migrations.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	cfg := applyOptions(opts)

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns)

	s := &SQLiteStore{db: db, board: newLeaderboard()}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			model_id TEXT NOT NULL,
			human_id TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			rating REAL NOT NULL DEFAULT 0,
			is_standard INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 0,
			is_small INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (model_id, human_id)
		);`,
		`CREATE TABLE IF NOT EXISTS env_performance (
			model_id TEXT NOT NULL,
			human_id TEXT NOT NULL,
			environment TEXT NOT NULL,
			rating REAL NOT NULL DEFAULT 0,
			games_played INTEGER NOT NULL DEFAULT 0,
			win_rate REAL NOT NULL DEFAULT 0,
			avg_decision_time REAL NOT NULL DEFAULT 0,
			wins INTEGER NOT NULL DEFAULT 0,
			draws INTEGER NOT NULL DEFAULT 0,
			losses INTEGER NOT NULL DEFAULT 0,
			skill_1 TEXT, skill_1_weight REAL,
			skill_2 TEXT, skill_2_weight REAL,
			skill_3 TEXT, skill_3_weight REAL,
			skill_4 TEXT, skill_4_weight REAL,
			skill_5 TEXT, skill_5_weight REAL,
			is_balancedsubset INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (model_id, human_id, environment)
		);`,
		`CREATE TABLE IF NOT EXISTS rating_snapshots (
			snapshot_id TEXT PRIMARY KEY,
			model_id TEXT NOT NULL,
			human_id TEXT NOT NULL,
			interval_start TEXT NOT NULL,
			mu REAL NOT NULL,
			sigma REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_entity_time
			ON rating_snapshots(model_id, human_id, interval_start);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_time
			ON rating_snapshots(interval_start);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Performance returns one entity's rows, one per environment.
func (s *SQLiteStore) Performance(ctx context.Context, id model.EntityID) ([]model.EnvironmentPerformance, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT environment, rating, games_played, win_rate, avg_decision_time,
		       wins, draws, losses,
		       skill_1, skill_1_weight, skill_2, skill_2_weight,
		       skill_3, skill_3_weight, skill_4, skill_4_weight,
		       skill_5, skill_5_weight, is_balancedsubset
		FROM env_performance
		WHERE model_id = ? AND human_id = ?
		ORDER BY environment`,
		id.ModelID, id.HumanID)
	if err != nil {
		return nil, fmt.Errorf("query performance: %w", err)
	}
	defer rows.Close()

	var out []model.EnvironmentPerformance
	for rows.Next() {
		var (
			rec      model.EnvironmentPerformance
			rating   sql.NullFloat64
			games    sql.NullInt64
			winRate  sql.NullFloat64
			avgTime  sql.NullFloat64
			wins     sql.NullInt64
			draws    sql.NullInt64
			losses   sql.NullInt64
			balanced sql.NullBool
			tags     [model.MaxSkillTags]sql.NullString
			weights  [model.MaxSkillTags]sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.Environment, &rating, &games, &winRate, &avgTime,
			&wins, &draws, &losses,
			&tags[0], &weights[0], &tags[1], &weights[1],
			&tags[2], &weights[2], &tags[3], &weights[3],
			&tags[4], &weights[4], &balanced,
		); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		// Upstream rows can be sparse; missing numerics read as zero and
		// missing flags as false rather than failing the whole query.
		rec.Rating = rating.Float64
		rec.GamesPlayed = int(games.Int64)
		rec.WinRate = winRate.Float64
		rec.AvgDecisionTime = avgTime.Float64
		rec.Wins = int(wins.Int64)
		rec.Draws = int(draws.Int64)
		rec.Losses = int(losses.Int64)
		rec.IsBalancedSubset = balanced.Bool
		for i := 0; i < model.MaxSkillTags; i++ {
			if tags[i].String == "" {
				continue
			}
			rec.Tags = append(rec.Tags, model.SkillTag{
				Skill:  tags[i].String,
				Weight: weights[i].Float64,
			})
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performance: %w", err)
	}
	return out, nil
}

// History returns snapshots for the given entities inside the lookback window.
func (s *SQLiteStore) History(ctx context.Context, ids []model.EntityID, r model.TimeRange, now time.Time) ([]model.RatingSnapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if len(ids) == 0 {
		return nil, nil
	}
	since := now.Add(-r.Duration()).UTC().Format(intervalLayout)

	query := `
		SELECT snapshot_id, model_id, human_id, interval_start, mu, sigma
		FROM rating_snapshots
		WHERE interval_start >= ? AND (`
	args := []any{since}
	for i, id := range ids {
		if i > 0 {
			query += " OR "
		}
		query += "(model_id = ? AND human_id = ?)"
		args = append(args, id.ModelID, id.HumanID)
	}
	query += `) ORDER BY interval_start ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []model.RatingSnapshot
	for rows.Next() {
		var (
			snap model.RatingSnapshot
			ts   string
			mu   sql.NullFloat64
			sig  sql.NullFloat64
		)
		if err := rows.Scan(&snap.SnapshotID, &snap.Entity.ModelID, &snap.Entity.HumanID, &ts, &mu, &sig); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		snap.Mean = mu.Float64
		snap.Uncertainty = sig.Float64
		if snap.Uncertainty < 0 {
			snap.Uncertainty = 0
		}
		when, err := time.Parse(intervalLayout, ts)
		if err != nil {
			// Unparseable rows are dropped instead of failing the series.
			continue
		}
		snap.IntervalStart = when
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

// Entities returns the filtered entity list, rating descending.
func (s *SQLiteStore) Entities(ctx context.Context, f EntityFilter) ([]model.Entity, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	query := `
		SELECT model_id, human_id, display_name, rating, is_standard, is_active, is_small
		FROM entities WHERE 1=1`
	if f.StandardOnly {
		query += ` AND is_standard = 1`
	}
	if !f.IncludeInactive {
		query += ` AND is_active = 1`
	}
	if !f.IncludeSmall {
		query += ` AND is_small = 0`
	}
	query += ` ORDER BY rating DESC, model_id ASC, human_id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []model.Entity
	for rows.Next() {
		var (
			e      model.Entity
			rating sql.NullFloat64
			std    sql.NullBool
			active sql.NullBool
			small  sql.NullBool
		)
		if err := rows.Scan(&e.ID.ModelID, &e.ID.HumanID, &e.DisplayName, &rating, &std, &active, &small); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		e.Rating = rating.Float64
		e.IsStandard = std.Bool
		e.IsActive = active.Bool
		e.IsSmall = small.Bool
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return out, nil
}

// UpsertEntity creates or replaces an entity row.
func (s *SQLiteStore) UpsertEntity(ctx context.Context, e model.Entity) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entities (model_id, human_id, display_name, rating, is_standard, is_active, is_small)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(model_id, human_id) DO UPDATE SET
			display_name = excluded.display_name,
			rating = excluded.rating,
			is_standard = excluded.is_standard,
			is_active = excluded.is_active,
			is_small = excluded.is_small`,
		e.ID.ModelID, e.ID.HumanID, e.DisplayName, e.Rating,
		boolToInt(e.IsStandard), boolToInt(e.IsActive), boolToInt(e.IsSmall))
	if err != nil {
		return fmt.Errorf("upsert entity: %w", err)
	}
	s.board.invalidate()
	return nil
}

// UpsertPerformance creates or replaces one environment row.
func (s *SQLiteStore) UpsertPerformance(ctx context.Context, id model.EntityID, rec model.EnvironmentPerformance) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	var tags [model.MaxSkillTags]any
	var weights [model.MaxSkillTags]any
	for i := 0; i < model.MaxSkillTags && i < len(rec.Tags); i++ {
		tags[i] = rec.Tags[i].Skill
		weights[i] = rec.Tags[i].Weight
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO env_performance (
			model_id, human_id, environment, rating, games_played, win_rate,
			avg_decision_time, wins, draws, losses,
			skill_1, skill_1_weight, skill_2, skill_2_weight,
			skill_3, skill_3_weight, skill_4, skill_4_weight,
			skill_5, skill_5_weight, is_balancedsubset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(model_id, human_id, environment) DO UPDATE SET
			rating = excluded.rating,
			games_played = excluded.games_played,
			win_rate = excluded.win_rate,
			avg_decision_time = excluded.avg_decision_time,
			wins = excluded.wins, draws = excluded.draws, losses = excluded.losses,
			skill_1 = excluded.skill_1, skill_1_weight = excluded.skill_1_weight,
			skill_2 = excluded.skill_2, skill_2_weight = excluded.skill_2_weight,
			skill_3 = excluded.skill_3, skill_3_weight = excluded.skill_3_weight,
			skill_4 = excluded.skill_4, skill_4_weight = excluded.skill_4_weight,
			skill_5 = excluded.skill_5, skill_5_weight = excluded.skill_5_weight,
			is_balancedsubset = excluded.is_balancedsubset`,
		id.ModelID, id.HumanID, rec.Environment, rec.Rating, rec.GamesPlayed, rec.WinRate,
		rec.AvgDecisionTime, rec.Wins, rec.Draws, rec.Losses,
		tags[0], weights[0], tags[1], weights[1], tags[2], weights[2],
		tags[3], weights[3], tags[4], weights[4], boolToInt(rec.IsBalancedSubset))
	if err != nil {
		return fmt.Errorf("upsert performance: %w", err)
	}
	return nil
}

// InsertSnapshot appends a rating snapshot and moves the entity's
// leaderboard rating to the snapshot mean. Snapshot streams arrive
// time-ordered, so the latest insert carries the current rating.
func (s *SQLiteStore) InsertSnapshot(ctx context.Context, snap model.RatingSnapshot) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO rating_snapshots (snapshot_id, model_id, human_id, interval_start, mu, sigma)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.SnapshotID, snap.Entity.ModelID, snap.Entity.HumanID,
		snap.IntervalStart.UTC().Format(intervalLayout), snap.Mean, snap.Uncertainty)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	// First snapshot for an unknown entity creates its leaderboard row;
	// any snapshot marks the entity active again.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO entities (model_id, human_id, display_name, rating, is_active)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(model_id, human_id) DO UPDATE SET
			rating = excluded.rating,
			is_active = 1`,
		snap.Entity.ModelID, snap.Entity.HumanID, snap.Entity.Key(), snap.Mean)
	if err != nil {
		return fmt.Errorf("update entity rating: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	s.board.invalidate()
	return nil
}

// Rank returns the current rank entry for an entity.
func (s *SQLiteStore) Rank(ctx context.Context, id model.EntityID) (Entry, error) {
	if err := s.board.refresh(ctx, s); err != nil {
		return Entry{}, err
	}
	return s.board.rank(id)
}

// TopN returns the top-N entries ordered by rating desc.
func (s *SQLiteStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	if err := s.board.refresh(ctx, s); err != nil {
		return nil, err
	}
	return s.board.topN(n), nil
}

// Count returns the number of tracked entities.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n); err != nil {
		return 0
	}
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
