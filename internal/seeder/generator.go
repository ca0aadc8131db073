package seeder

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/arenalab/skillboard/pkg/logger"
)

// Rating walk constants. New entities start near the baseline prior and
// drift per hour, tightening uncertainty as snapshots accumulate.
const (
	startMean          = 25.0
	startUncertainty   = 8.0
	driftRange         = 3.0 // max absolute per-hour mean change
	minUncertainty     = 1.5
	uncertaintyDecay   = 0.97
	randomFloatDivisor = 1_000_000
	humanPairChance    = 3 // 1 in N entities is a model/human pair
)

var modelNames = []string{
	"atlas", "scout", "vera", "lumen", "corvid", "nomad",
	"quill", "sable", "tycho", "ember", "halcyon", "drift",
}

var humanHandles = []string{
	"kim", "ana", "theo", "mira", "jules", "ravi", "noor", "sol",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick(list []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	return list[n.Int64()]
}

// generateEntityID builds a unique entity key. Most entities are bare
// models; some are model/human pairs.
func generateEntityID() string {
	name := pick(modelNames) + "-" + uuid.New().String()[:8]
	n, _ := rand.Int(rand.Reader, big.NewInt(humanPairChance))
	if n.Int64() == 0 {
		return name + "#" + pick(humanHandles)
	}
	return name
}

// generateSnapshots creates per-entity rating walks, one snapshot per hour
// going backwards from now.
func generateSnapshots(ctx context.Context, config *Config, stats *Stats) ([]Snapshot, error) {
	logger.Get().Info(ctx, "generating snapshot walks",
		logger.Int("entities", config.NumEntities),
		logger.Int("perEntity", config.SnapshotsPerEntity))

	now := time.Now().UTC().Truncate(time.Hour)
	snapshots := make([]Snapshot, 0, config.NumEntities*config.SnapshotsPerEntity)

	for i := 0; i < config.NumEntities; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entity := generateEntityID()
		mean := startMean + (getRandomFloat()-0.5)*10
		sigma := startUncertainty

		for j := config.SnapshotsPerEntity - 1; j >= 0; j-- {
			ts := now.Add(-time.Duration(j) * time.Hour)
			mean += (getRandomFloat() - 0.5) * 2 * driftRange
			if mean < 0 {
				mean = 0
			}
			sigma *= uncertaintyDecay
			if sigma < minUncertainty {
				sigma = minUncertainty
			}
			snapshots = append(snapshots, Snapshot{
				SnapshotID:    uuid.New().String(),
				Entity:        entity,
				IntervalStart: ts.Format(time.RFC3339),
				Mean:          mean,
				Uncertainty:   sigma,
			})
		}
	}

	stats.EntitiesGenerated = config.NumEntities
	stats.SnapshotsGenerated = len(snapshots)
	logger.Get().Info(ctx, "generated snapshots successfully", logger.Int("count", len(snapshots)))

	return snapshots, nil
}
