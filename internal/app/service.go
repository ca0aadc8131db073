// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	snapshotqueue "github.com/arenalab/skillboard/internal/adapters/mq/queue"
	workerpool "github.com/arenalab/skillboard/internal/adapters/mq/worker"
	"github.com/arenalab/skillboard/internal/adapters/repository"
	"github.com/arenalab/skillboard/internal/domain/dedupe"
	"github.com/arenalab/skillboard/internal/domain/history"
	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/internal/domain/skills"
	"github.com/arenalab/skillboard/pkg/logger"
	"github.com/arenalab/skillboard/pkg/metrics"
)

// Service wires the store, the ingest pipeline and the two pure pipelines
// (skill aggregation, history reconstruction) behind one API surface.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	deduper    dedupe.Deduper
	queue      snapshotqueue.Queue
	workerPool *workerpool.Pool
	builder    *history.Builder

	// Configuration
	dbPath              string
	queueSize           int
	workerCount         int
	dedupeSize          int
	baselineMean        float64
	baselineUncertainty float64
	maxHistoryEntities  int

	started bool
	logger  logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:              "./skillboard.db",
		queueSize:           10_000,
		workerCount:         runtime.NumCPU(),
		dedupeSize:          50_000,
		baselineMean:        history.DefaultBaselineMean,
		baselineUncertainty: history.DefaultBaselineUncertainty,
		maxHistoryEntities:  20,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting skillboard service...")

	if s.store == nil {
		store, err := repository.Open(ctx, s.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
	}
	s.deduper = dedupe.NewRingDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = snapshotqueue.NewInMemoryQueue(snapshotqueue.WithCapacity(s.queueSize))
	s.builder = history.New(history.WithBaseline(s.baselineMean, s.baselineUncertainty))

	s.workerPool = workerpool.NewPool(s.queue, s.store,
		workerpool.WithCount(s.workerCount),
		workerpool.WithLogger(s.logger.Named("worker")),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "skillboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("dbPath", s.dbPath),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping skillboard service...")

	// Close the queue first so workers drain the backlog before exiting.
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "skillboard service stopped")
}

// Performance returns one entity's per-environment performance rows.
func (s *Service) Performance(ctx context.Context, id model.EntityID) ([]model.EnvironmentPerformance, error) {
	return s.store.Performance(ctx, id)
}

// Skills aggregates an entity's environment rows into the canonical skill
// vector. balancedOnly restricts the aggregation to the balanced subset.
func (s *Service) Skills(ctx context.Context, id model.EntityID, balancedOnly bool) ([]skills.Score, error) {
	records, err := s.store.Performance(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}

	start := time.Now()
	scores := skills.New(skills.WithBalancedOnly(balancedOnly)).Aggregate(records)
	metrics.RecordAggregation(float64(time.Since(start).Milliseconds()))
	return scores, nil
}

// History reconstructs the aligned rating series for the tracked entities
// over the given range.
func (s *Service) History(ctx context.Context, ids []model.EntityID, r model.TimeRange) ([]history.Point, error) {
	if len(ids) > s.maxHistoryEntities {
		ids = ids[:s.maxHistoryEntities]
	}
	now := s.now()
	snapshots, err := s.store.History(ctx, ids, r, now)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	start := time.Now()
	points := s.builder.Build(snapshots, ids, now.Add(-r.Duration()), now)
	metrics.RecordReconstruction(float64(time.Since(start).Milliseconds()), len(points))
	return points, nil
}

// UpsertEntity inserts or replaces a leaderboard entity.
func (s *Service) UpsertEntity(ctx context.Context, e model.Entity) error {
	return s.store.UpsertEntity(ctx, e)
}

// UpsertPerformance inserts or replaces one environment row for an entity.
func (s *Service) UpsertPerformance(ctx context.Context, id model.EntityID, rec model.EnvironmentPerformance) error {
	return s.store.UpsertPerformance(ctx, id, rec)
}

// Entities returns the filtered entity list for pagination.
func (s *Service) Entities(ctx context.Context, f repository.EntityFilter) ([]model.Entity, error) {
	return s.store.Entities(ctx, f)
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the rank entry for a given entity.
func (s *Service) Rank(ctx context.Context, id model.EntityID) (repository.Entry, error) {
	return s.store.Rank(ctx, id)
}

// SeenAndRecord atomically checks if a snapshot id was seen and records it
// if not. Returns true if the snapshot was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSnapshotDuplicate()
	}
	return seen
}

// Unrecord removes a snapshot id from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a snapshot for asynchronous ingestion. Returns false on
// backpressure.
func (s *Service) Enqueue(ctx context.Context, snap model.RatingSnapshot) bool {
	ok := s.queue.Enqueue(ctx, snap)
	if ok {
		metrics.RecordSnapshotIngested()
	} else {
		metrics.RecordSnapshotRejected()
	}
	metrics.UpdateQueueSize(s.queue.Len())
	return ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.queue.Len()
		stats["totalEntities"] = s.store.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(s.queue.Len())
		metrics.UpdateTotalEntities(s.store.Count(ctx))
	}
	return stats
}
