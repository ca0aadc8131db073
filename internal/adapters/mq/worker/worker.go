// Package worker drains the snapshot queue into the store.
package worker

import (
	"context"
	"runtime"
	"time"

	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/pkg/logger"
	"github.com/arenalab/skillboard/pkg/metrics"
)

const workerShutdownTimeout = 5 * time.Second

// Writer persists snapshots. The repository's SQLite store satisfies it.
type Writer interface {
	InsertSnapshot(ctx context.Context, s model.RatingSnapshot) error
}

// Queue defines how workers receive snapshots.
type Queue interface {
	Dequeue() <-chan model.RatingSnapshot
}

// Pool runs a fixed set of ingest workers over a shared queue.
type Pool struct {
	queue  Queue
	writer Writer
	count  int
	log    logger.Logger

	done []chan struct{}
}

// NewPool creates a worker pool with configuration options.
func NewPool(queue Queue, writer Writer, opts ...Option) *Pool {
	p := &Pool{
		queue:  queue,
		writer: writer,
		count:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("worker")
	}
	return p
}

// Start launches the workers. They exit when ctx is cancelled or the queue
// channel closes.
func (p *Pool) Start(ctx context.Context) {
	p.done = make([]chan struct{}, p.count)
	for i := 0; i < p.count; i++ {
		done := make(chan struct{})
		p.done[i] = done
		go p.run(ctx, i, done)
	}
	metrics.UpdateWorkerCount(p.count)
}

func (p *Pool) run(ctx context.Context, id int, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-p.queue.Dequeue():
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			p.process(ctx, id, snap)
		}
	}
}

func (p *Pool) process(ctx context.Context, id int, snap model.RatingSnapshot) {
	start := time.Now()
	if err := p.writer.InsertSnapshot(ctx, snap); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordIngestWriteFailure()
		p.log.Error(ctx, "snapshot write failed",
			logger.Int("worker", id),
			logger.String("snapshot_id", snap.SnapshotID),
			logger.String("entity", snap.Entity.Key()),
			logger.Error(err),
		)
		return
	}
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	p.log.Debug(ctx, "snapshot stored",
		logger.Int("worker", id),
		logger.String("snapshot_id", snap.SnapshotID),
		logger.String("entity", snap.Entity.Key()),
		logger.Float64("mean", snap.Mean),
	)
}

// Stop waits for the workers to finish their in-flight snapshots. Callers
// should close the queue first so the workers drain and exit.
func (p *Pool) Stop() {
	for _, done := range p.done {
		select {
		case <-done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}
