package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/arenalab/skillboard/internal/adapters/mq/queue"
	"github.com/arenalab/skillboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(id string) queue.Snapshot {
	return queue.Snapshot{
		SnapshotID:    id,
		Entity:        model.EntityID{ModelID: "m", HumanID: "h"},
		IntervalStart: time.Now().UTC(),
		Mean:          25,
		Uncertainty:   8,
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity 2", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, snapshot("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, snapshot("b")), ShouldBeTrue)

			Convey("Then Len reflects the backlog", func() {
				So(q.Len(), ShouldEqual, 2)
			})

			Convey("And a third enqueue reports backpressure", func() {
				So(q.Enqueue(ctx, snapshot("c")), ShouldBeFalse)
			})

			Convey("And dequeuing drains in order", func() {
				got := <-q.Dequeue()
				So(got.SnapshotID, ShouldEqual, "a")
				got = <-q.Dequeue()
				So(got.SnapshotID, ShouldEqual, "b")
				So(q.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, snapshot("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues fail", func() {
				So(q.Enqueue(ctx, snapshot("b")), ShouldBeFalse)
			})

			Convey("And the dequeue channel drains then closes", func() {
				got, ok := <-q.Dequeue()
				So(ok, ShouldBeTrue)
				So(got.SnapshotID, ShouldEqual, "a")
				_, ok = <-q.Dequeue()
				So(ok, ShouldBeFalse)
			})

			Convey("And closing twice is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the context is already cancelled and the queue is full", func() {
			So(q.Enqueue(ctx, snapshot("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, snapshot("b")), ShouldBeTrue)
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then the enqueue fails instead of blocking", func() {
				So(q.Enqueue(cancelled, snapshot("c")), ShouldBeFalse)
			})
		})
	})
}
