package service

import (
	"time"

	"github.com/arenalab/skillboard/internal/adapters/repository"
	"github.com/arenalab/skillboard/pkg/logger"
)

// Option configures the service.
type Option func(*Service)

// WithDBPath sets the SQLite database path used when no store is injected.
func WithDBPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.dbPath = path
		}
	}
}

// WithStore injects an already-opened store. The service takes ownership
// and closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithQueueSize sets the ingest queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDedupeSize bounds the snapshot dedupe window.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithBaseline sets the rating prior used for hours before an entity's
// first snapshot.
func WithBaseline(mean, uncertainty float64) Option {
	return func(s *Service) {
		if uncertainty >= 0 {
			s.baselineMean = mean
			s.baselineUncertainty = uncertainty
		}
	}
}

// WithMaxHistoryEntities caps how many entities one history request may
// track.
func WithMaxHistoryEntities(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxHistoryEntities = n
		}
	}
}

// WithLogger sets the logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
