package worker

import (
	"context"
	"log"
	"time"
)

// StaleFailer is the slice of the sync log repository the sweeper needs.
type StaleFailer interface {
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Sweeper periodically fails jobs whose last progress update exceeded the
// staleness threshold. A worker crash otherwise leaves rows in_progress
// forever with no caller-visible outcome.
type Sweeper struct {
	logs       StaleFailer
	staleAfter time.Duration
	interval   time.Duration
}

func NewSweeper(logs StaleFailer, staleAfter, interval time.Duration) *Sweeper {
	return &Sweeper{logs: logs, staleAfter: staleAfter, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled. One pass runs
// immediately on startup to clean up after a previous crash.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Starting stale-job sweeper (threshold %s, every %s)", s.staleAfter, s.interval)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	count, err := s.logs.FailStale(ctx, s.staleAfter)
	if err != nil {
		log.Printf("Error sweeping stale jobs: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Failed %d stalled sync job(s)", count)
	}
}
