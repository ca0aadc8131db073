// Package seeder generates synthetic rating histories and loads them into a
// running skillboard instance over its HTTP API.
package seeder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arenalab/skillboard/pkg/logger"
)

const (
	processingWait     = 2 * time.Second
	verifyLeaderboardN = 20
)

// Run executes the complete seeding flow: health check, generation,
// concurrent submission and a leaderboard read-back.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting skillboard seeder",
		logger.String("baseURL", config.BaseURL),
		logger.Int("entities", config.NumEntities),
		logger.Int("snapshotsPerEntity", config.SnapshotsPerEntity),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	snapshots, err := generateSnapshots(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("snapshot generation failed: %w", err)
	}

	if err := submitSnapshots(ctx, config, snapshots, stats); err != nil {
		return fmt.Errorf("snapshot submission failed: %w", err)
	}

	// Give the ingest workers a moment to drain the queue.
	logger.Get().Info(ctx, "waiting for snapshots to be processed")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(processingWait):
	}

	entries, err := getLeaderboard(ctx, config, verifyLeaderboardN, stats)
	if err != nil {
		return fmt.Errorf("leaderboard read-back failed: %w", err)
	}
	if len(entries) == 0 && stats.SnapshotsAccepted > 0 {
		return fmt.Errorf("leaderboard is empty after %d accepted snapshots", stats.SnapshotsAccepted)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final seeding statistics.
func displayFinalStats(stats *Stats) {
	var successRate, perSecond float64
	if stats.SnapshotsSubmitted > 0 {
		successRate = float64(stats.SnapshotsAccepted) / float64(stats.SnapshotsSubmitted) * 100
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.SnapshotsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("entitiesGenerated", stats.EntitiesGenerated),
		logger.Int("snapshotsGenerated", stats.SnapshotsGenerated),
		logger.Int("snapshotsSubmitted", stats.SnapshotsSubmitted),
		logger.Int("snapshotsAccepted", stats.SnapshotsAccepted),
		logger.Int("snapshotsDuplicate", stats.SnapshotsDuplicate),
		logger.Int("snapshotsFailed", stats.SnapshotsFailed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("snapshotsPerSecond", perSecond))
}
