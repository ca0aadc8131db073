package seeder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arenalab/skillboard/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// submitSnapshots submits snapshots concurrently using a worker pool.
func submitSnapshots(ctx context.Context, config *Config, snapshots []Snapshot, stats *Stats) error {
	logger.Get().Info(ctx, "submitting snapshots",
		logger.Int("count", len(snapshots)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/snapshots"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	snapChan := make(chan Snapshot, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snap := range snapChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				result := submitSingleSnapshot(ctx, client, url, snap)

				atomic.AddInt64(&submitted, 1)
				switch result {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				if config.Verbose && atomic.LoadInt64(&submitted)%1000 == 0 {
					logger.Get().Info(ctx, "progress",
						logger.Int64("submitted", atomic.LoadInt64(&submitted)),
						logger.Int("total", len(snapshots)))
				}
			}
		}()
	}

	go func() {
		defer close(snapChan)
		for _, snap := range snapshots {
			select {
			case <-ctx.Done():
				return
			case snapChan <- snap:
			}
		}
	}()

	wg.Wait()

	stats.SnapshotsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SnapshotsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SnapshotsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SnapshotsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "snapshot submission completed",
		logger.Int("accepted", stats.SnapshotsAccepted),
		logger.Int("duplicate", stats.SnapshotsDuplicate),
		logger.Int("failed", stats.SnapshotsFailed))

	return nil
}

// submitSingleSnapshot submits one snapshot and classifies the outcome.
// Backpressure responses are retried a few times before counting as failed.
func submitSingleSnapshot(ctx context.Context, client *HTTPClient, url string, snap Snapshot) string {
	const maxAttempts = 3

	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := client.Post(ctx, url, snap)
		if err != nil {
			return "failed"
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return "failed"
		}

		switch resp.StatusCode {
		case http.StatusAccepted:
			return "accepted"
		case http.StatusOK:
			var ack AckResponse
			if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
				return "duplicate"
			}
			return "duplicate"
		case http.StatusTooManyRequests:
			select {
			case <-ctx.Done():
				return "failed"
			case <-time.After(time.Duration(attempt+1) * 100 * time.Millisecond):
			}
			continue
		default:
			return "failed"
		}
	}
	return "failed"
}

// getLeaderboard fetches the current leaderboard for verification.
func getLeaderboard(ctx context.Context, config *Config, n int, stats *Stats) ([]Entry, error) {
	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, n)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard request failed with status: %d", resp.StatusCode)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(entries)
	return entries, nil
}
