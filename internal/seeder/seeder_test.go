package seeder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/arenalab/skillboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerateSnapshots(t *testing.T) {
	Convey("Given a seeder configuration", t, func() {
		config := &Config{NumEntities: 5, SnapshotsPerEntity: 4}
		stats := &Stats{}

		Convey("When generating snapshots", func() {
			snapshots, err := generateSnapshots(context.Background(), config, stats)

			Convey("Then one walk per entity should be produced", func() {
				So(err, ShouldBeNil)
				So(len(snapshots), ShouldEqual, 20)
				So(stats.EntitiesGenerated, ShouldEqual, 5)
				So(stats.SnapshotsGenerated, ShouldEqual, 20)
			})

			Convey("And snapshot ids should be unique", func() {
				ids := make(map[string]bool, len(snapshots))
				for _, s := range snapshots {
					So(ids[s.SnapshotID], ShouldBeFalse)
					ids[s.SnapshotID] = true
				}
			})

			Convey("And timestamps should parse as RFC3339 on hour boundaries", func() {
				for _, s := range snapshots {
					ts, err := time.Parse(time.RFC3339, s.IntervalStart)
					So(err, ShouldBeNil)
					So(ts.Truncate(time.Hour).Equal(ts), ShouldBeTrue)
				}
			})

			Convey("And means should never go negative", func() {
				for _, s := range snapshots {
					So(s.Mean, ShouldBeGreaterThanOrEqualTo, 0)
					So(s.Uncertainty, ShouldBeGreaterThanOrEqualTo, minUncertainty)
				}
			})
		})

		Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := generateSnapshots(ctx, config, stats)

			Convey("Then generation should stop", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestGenerateEntityID(t *testing.T) {
	Convey("Given the entity id generator", t, func() {
		Convey("When generating many ids", func() {
			seen := make(map[string]bool)
			pairs := 0
			for i := 0; i < 200; i++ {
				id := generateEntityID()
				So(seen[id], ShouldBeFalse)
				seen[id] = true
				if strings.Contains(id, "#") {
					pairs++
				}
			}

			Convey("Then some should be model/human pairs", func() {
				So(pairs, ShouldBeGreaterThan, 0)
				So(pairs, ShouldBeLessThan, 200)
			})
		})
	})
}

func TestSubmitSnapshots(t *testing.T) {
	Convey("Given a stub service", t, func() {
		var duplicates int
		seen := make(map[string]bool)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var snap Snapshot
			if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if seen[snap.SnapshotID] {
				duplicates++
				w.WriteHeader(http.StatusOK)
				_ = json.NewEncoder(w).Encode(AckResponse{Status: "duplicate", Duplicate: true})
				return
			}
			seen[snap.SnapshotID] = true
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(AckResponse{Status: "accepted"})
		}))
		defer srv.Close()

		config := &Config{
			BaseURL: srv.URL,
			Workers: 4,
			Timeout: 5 * time.Second,
		}

		Convey("When submitting a batch with one duplicate", func() {
			snapshots := []Snapshot{
				{SnapshotID: "a", Entity: "atlas-1", IntervalStart: "2026-03-14T09:00:00Z", Mean: 25, Uncertainty: 8},
				{SnapshotID: "b", Entity: "atlas-2", IntervalStart: "2026-03-14T09:00:00Z", Mean: 26, Uncertainty: 8},
				{SnapshotID: "a", Entity: "atlas-1", IntervalStart: "2026-03-14T09:00:00Z", Mean: 25, Uncertainty: 8},
			}
			stats := &Stats{}
			err := submitSnapshots(context.Background(), config, snapshots, stats)

			Convey("Then the outcome counters should match", func() {
				So(err, ShouldBeNil)
				So(stats.SnapshotsSubmitted, ShouldEqual, 3)
				So(stats.SnapshotsAccepted, ShouldEqual, 2)
				So(stats.SnapshotsDuplicate, ShouldEqual, 1)
				So(stats.SnapshotsFailed, ShouldEqual, 0)
			})
		})
	})
}

func TestGetLeaderboard(t *testing.T) {
	Convey("Given a stub leaderboard endpoint", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode([]Entry{
				{Rank: 1, Entity: "atlas-1#", DisplayName: "atlas-1", Rating: 31.5},
			})
		}))
		defer srv.Close()

		config := &Config{BaseURL: srv.URL, Timeout: 5 * time.Second}
		stats := &Stats{}

		Convey("When fetching the leaderboard", func() {
			entries, err := getLeaderboard(context.Background(), config, 10, stats)

			Convey("Then entries should be decoded", func() {
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				So(entries[0].Rank, ShouldEqual, 1)
				So(stats.LeaderboardEntries, ShouldEqual, 1)
			})
		})
	})
}
