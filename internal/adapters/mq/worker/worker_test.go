package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arenalab/skillboard/internal/adapters/mq/queue"
	"github.com/arenalab/skillboard/internal/adapters/mq/worker"
	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// recordingWriter remembers inserted snapshots and can fail on demand.
type recordingWriter struct {
	mu       sync.Mutex
	inserted []model.RatingSnapshot
	failIDs  map[string]bool
}

func (w *recordingWriter) InsertSnapshot(_ context.Context, s model.RatingSnapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failIDs[s.SnapshotID] {
		return errors.New("disk full")
	}
	w.inserted = append(w.inserted, s)
	return nil
}

func (w *recordingWriter) snapshotIDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]string, len(w.inserted))
	for i, s := range w.inserted {
		ids[i] = s.SnapshotID
	}
	return ids
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestPool(t *testing.T) {
	_ = logger.Init()
	ctx := context.Background()

	Convey("Given a pool over an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		w := &recordingWriter{}
		p := worker.NewPool(q, w, worker.WithCount(2))
		p.Start(ctx)

		Convey("When snapshots are enqueued", func() {
			for _, id := range []string{"s1", "s2", "s3"} {
				So(q.Enqueue(ctx, queue.Snapshot{
					SnapshotID: id,
					Entity:     model.EntityID{ModelID: "m"},
					Mean:       30,
				}), ShouldBeTrue)
			}

			Convey("Then all of them reach the writer", func() {
				ok := waitFor(func() bool { return len(w.snapshotIDs()) == 3 })
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When a write fails", func() {
			w.failIDs = map[string]bool{"bad": true}
			So(q.Enqueue(ctx, queue.Snapshot{SnapshotID: "bad"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Snapshot{SnapshotID: "good"}), ShouldBeTrue)

			Convey("Then the pool keeps processing subsequent snapshots", func() {
				ok := waitFor(func() bool {
					ids := w.snapshotIDs()
					return len(ids) == 1 && ids[0] == "good"
				})
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the queue closes", func() {
			So(q.Enqueue(ctx, queue.Snapshot{SnapshotID: "last"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then the pool drains and stops", func() {
				p.Stop()
				So(w.snapshotIDs(), ShouldContain, "last")
			})
		})

		Reset(func() {
			_ = q.Close()
			p.Stop()
		})
	})
}
