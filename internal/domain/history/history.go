// Package history reconstructs continuous rating time series from sparse,
// irregularly-sampled snapshots.
package history

import (
	"time"

	"github.com/arenalab/skillboard/internal/domain/model"
)

// Platform prior for an unrated entity. Applied when a tracked entity has
// no snapshot yet at the start of the series.
const (
	DefaultBaselineMean        = 25.0
	DefaultBaselineUncertainty = 8.0
)

// SeriesValue is one entity's reconstructed rating at one bucket.
type SeriesValue struct {
	Value       float64 `json:"value"`
	Uncertainty float64 `json:"uncertainty"`
	Upper       float64 `json:"upper"`
	Lower       float64 `json:"lower"`
}

// Point is one hour-aligned bucket with a defined value for every tracked
// entity. Values is keyed by EntityID.Key().
type Point struct {
	Bucket time.Time              `json:"bucket"`
	Values map[string]SeriesValue `json:"values"`
}

// Builder turns snapshot lists into aligned, gap-free bucket series.
type Builder struct {
	baselineMean        float64
	baselineUncertainty float64
}

// New creates a Builder with configuration options.
func New(opts ...Option) *Builder {
	b := &Builder{
		baselineMean:        DefaultBaselineMean,
		baselineUncertainty: DefaultBaselineUncertainty,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the fully-populated bucket series over [from, to] for the
// tracked entities: one point per hour of the window, whether or not any
// snapshot landed in that hour. Snapshots are expected pre-sorted by time;
// within a bucket the last-processed snapshot for an entity wins. A snapshot
// older than the window seeds the carry value at the window start.
//
// Carrying values forward over bucket gaps implies stability during idle
// periods; that is the accepted tradeoff for gap-free chart lines.
func (b *Builder) Build(snapshots []model.RatingSnapshot, tracked []model.EntityID, from, to time.Time) []Point {
	if len(tracked) == 0 {
		return nil
	}
	start := from.UTC().Truncate(time.Hour)
	end := to.UTC().Truncate(time.Hour)
	if end.Before(start) {
		return nil
	}

	baseline := SeriesValue{
		Value:       b.baselineMean,
		Uncertainty: b.baselineUncertainty,
		Upper:       b.baselineMean + b.baselineUncertainty,
		Lower:       b.baselineMean - b.baselineUncertainty,
	}

	// Forward-fill state: every tracked entity gets a defined value at
	// every bucket, seeded with the baseline before its first snapshot.
	last := make(map[string]SeriesValue, len(tracked))
	for _, id := range tracked {
		last[id.Key()] = baseline
	}

	buckets := make(map[time.Time]map[string]SeriesValue)
	for _, snap := range snapshots {
		bucket := snap.IntervalStart.UTC().Truncate(time.Hour)
		value := SeriesValue{
			Value:       snap.Mean,
			Uncertainty: snap.Uncertainty,
			Upper:       snap.Mean + snap.Uncertainty,
			Lower:       snap.Mean - snap.Uncertainty,
		}
		if bucket.Before(start) {
			last[snap.Entity.Key()] = value
			continue
		}
		if bucket.After(end) {
			continue
		}
		cells, ok := buckets[bucket]
		if !ok {
			cells = make(map[string]SeriesValue)
			buckets[bucket] = cells
		}
		cells[snap.Entity.Key()] = value
	}

	points := make([]Point, 0, int(end.Sub(start)/time.Hour)+1)
	for t := start; !t.After(end); t = t.Add(time.Hour) {
		cells := buckets[t]
		values := make(map[string]SeriesValue, len(tracked))
		for _, id := range tracked {
			key := id.Key()
			if v, ok := cells[key]; ok {
				last[key] = v
			}
			values[key] = last[key]
		}
		points = append(points, Point{Bucket: t, Values: values})
	}
	return points
}

// Baseline returns the configured prior as a SeriesValue.
func (b *Builder) Baseline() SeriesValue {
	return SeriesValue{
		Value:       b.baselineMean,
		Uncertainty: b.baselineUncertainty,
		Upper:       b.baselineMean + b.baselineUncertainty,
		Lower:       b.baselineMean - b.baselineUncertainty,
	}
}
