package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/arenalab/skillboard/internal/seeder"
	"github.com/arenalab/skillboard/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEntities        = 50
	defaultSnapshotsPerEntity = 48
	defaultWorkerMultiplier   = 2
	defaultTimeout            = 30 * time.Second
	defaultRunTimeout         = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numEntities = flag.Int("entities", defaultNumEntities, "Number of entities to generate")
		perEntity   = flag.Int("snapshots", defaultSnapshotsPerEntity, "Snapshots per entity, one per hour backwards")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkerMultiplier, "Number of concurrent submitters")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seeder.Config{
		BaseURL:            *baseURL,
		NumEntities:        *numEntities,
		SnapshotsPerEntity: *perEntity,
		Workers:            *workers,
		Timeout:            *timeout,
		Verbose:            *verbose,
	}

	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
