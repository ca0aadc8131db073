// Package queue defines the contract for enqueuing and consuming rating
// snapshots on their way to the store.
package queue

import (
	"context"
	"sync"

	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/pkg/metrics"
)

const defaultCapacity = 10000

// Snapshot is the payload type flowing through the queue.
type Snapshot = model.RatingSnapshot

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a snapshot to the queue.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, s Snapshot) bool

	// Dequeue returns the channel workers consume from. It is closed when
	// the queue is closed.
	Dequeue() <-chan Snapshot

	// Len returns the current number of queued snapshots.
	Len() int

	// Close stops the queue. After closing, enqueues fail and the dequeue
	// channel drains then closes.
	Close() error
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	snapshots chan Snapshot
	capacity  int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.snapshots = make(chan Snapshot, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)
	return q
}

// Enqueue adds a snapshot to the queue without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Snapshot) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.snapshots <- s:
		metrics.RecordQueueEnqueue()
		q.observe()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// Queue full: callers surface backpressure instead of blocking.
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns the consumer channel.
func (q *InMemoryQueue) Dequeue() <-chan Snapshot {
	return q.snapshots
}

// Len returns the current number of queued snapshots.
func (q *InMemoryQueue) Len() int {
	return len(q.snapshots)
}

// Close stops the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.snapshots)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) observe() {
	size := len(q.snapshots)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
