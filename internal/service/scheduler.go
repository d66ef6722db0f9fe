package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/vitorcpx/hrsync-worker/internal/models"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the contiguous slice of records one batch handles.
	DefaultBatchSize = 100
	// DefaultMaxConcurrent bounds how many batches run at once within a wave.
	DefaultMaxConcurrent = 5

	// progressFlushEvery is the per-record cadence of progress writes in
	// sequential mode.
	progressFlushEvery = 10
	// cancelPollEvery is how many records sequential mode processes between
	// store cancellation polls.
	cancelPollEvery = 10
	// terminalWriteAttempts retries the final status write; losing it leaves
	// the job in_progress until the sweeper fails it.
	terminalWriteAttempts = 3
)

// errJobCancelled aborts a wave once a batch observes the cancelled status.
var errJobCancelled = errors.New("sync job cancelled")

// SyncLogStore is the slice of the sync log repository the scheduler writes
// progress through. It is the only synchronization point between batches.
type SyncLogStore interface {
	GetByID(ctx context.Context, jobID string) (*models.SyncJob, error)
	Advance(ctx context.Context, jobID string, status models.SyncJobStatus, message string, errorDetails *string) error
	SetTotals(ctx context.Context, jobID string, totalRecords int) error
	IncrementProgress(ctx context.Context, jobID string, delta int) error
	SetProgress(ctx context.Context, jobID string, processed int) error
	SetBatchInfo(ctx context.Context, jobID string, batch, totalBatches int) error
}

type SchedulerOptions struct {
	BatchSize     int
	MaxConcurrent int
}

func (o SchedulerOptions) withDefaults() SchedulerOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	return o
}

// Scheduler drives one fetched record set to completion, keeping the sync
// log current as it goes. Record sets larger than one batch are processed in
// waves of concurrent batches; smaller sets run sequentially.
type Scheduler struct {
	logs SyncLogStore
	opts SchedulerOptions
}

func NewScheduler(logs SyncLogStore, opts SchedulerOptions) *Scheduler {
	return &Scheduler{logs: logs, opts: opts.withDefaults()}
}

// Run processes all records for one job. Per-record failures are counted and
// never abort the job; only a failed in_progress transition is returned as
// an error. Cancellation is cooperative: the store is polled between
// batches, and an observed cancel stops scheduling without overwriting the
// terminal status.
func (s *Scheduler) Run(ctx context.Context, jobID, userID string, reconciler RecordReconciler, records []soc.Record) error {
	total := len(records)

	if err := s.logs.SetTotals(ctx, jobID, total); err != nil {
		log.Printf("Warning: failed to record totals for job %s: %v", jobID, err)
	}
	if err := s.logs.Advance(ctx, jobID, models.SyncStatusInProgress, fmt.Sprintf("Processing %d records", total), nil); err != nil {
		return fmt.Errorf("failed to start job %s: %w", jobID, err)
	}

	var success, failed int
	var cancelled bool
	if total > s.opts.BatchSize {
		success, failed, cancelled = s.runParallel(ctx, jobID, userID, reconciler, records)
	} else {
		success, failed, cancelled = s.runSequential(ctx, jobID, userID, reconciler, records)
	}

	if cancelled {
		log.Printf("Job %s cancelled after %d of %d records", jobID, success+failed, total)
		return nil
	}

	message := fmt.Sprintf("Synced %d of %d records (%d failed)", success, total, failed)
	s.advanceTerminal(ctx, jobID, models.SyncStatusCompleted, message)
	return nil
}

// runSequential iterates the records one at a time, flushing progress every
// few records and polling for cancellation on the same cadence.
func (s *Scheduler) runSequential(ctx context.Context, jobID, userID string, reconciler RecordReconciler, records []soc.Record) (success, failed int, cancelled bool) {
	for i, rec := range records {
		if ctx.Err() != nil {
			return success, failed, true
		}
		if i%cancelPollEvery == 0 && s.isCancelled(ctx, jobID) {
			return success, failed, true
		}

		if err := reconciler.Reconcile(ctx, userID, rec); err != nil {
			log.Printf("Record %d of job %s failed: %v", i+1, jobID, err)
			failed++
		} else {
			success++
		}

		if (i+1)%progressFlushEvery == 0 {
			if err := s.logs.SetProgress(ctx, jobID, i+1); err != nil {
				log.Printf("Warning: progress update failed for job %s: %v", jobID, err)
			}
		}
	}

	if err := s.logs.SetProgress(ctx, jobID, len(records)); err != nil {
		log.Printf("Warning: final progress update failed for job %s: %v", jobID, err)
	}
	return success, failed, false
}

// runParallel partitions the records into contiguous batches and processes
// them in waves of up to MaxConcurrent. Wave N+1 never starts before every
// batch of wave N has finished. Each batch reports its contribution through
// the store's atomic increment, so concurrent batches cannot lose progress
// updates.
func (s *Scheduler) runParallel(ctx context.Context, jobID, userID string, reconciler RecordReconciler, records []soc.Record) (int, int, bool) {
	batches := partition(records, s.opts.BatchSize)
	totalBatches := len(batches)
	log.Printf("Job %s: %d records in %d batches, %d concurrent", jobID, len(records), totalBatches, s.opts.MaxConcurrent)

	var success, failed int64
	cancelled := false

	for waveStart := 0; waveStart < totalBatches && !cancelled; waveStart += s.opts.MaxConcurrent {
		if s.isCancelled(ctx, jobID) {
			cancelled = true
			break
		}

		waveEnd := waveStart + s.opts.MaxConcurrent
		if waveEnd > totalBatches {
			waveEnd = totalBatches
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := waveStart; i < waveEnd; i++ {
			batchNumber, batch := i+1, batches[i]
			g.Go(func() error {
				if s.isCancelled(gctx, jobID) {
					return errJobCancelled
				}
				if err := s.logs.SetBatchInfo(gctx, jobID, batchNumber, totalBatches); err != nil {
					log.Printf("Warning: batch info update failed for job %s: %v", jobID, err)
				}

				processed := 0
				for _, rec := range batch {
					// A cancelled sibling batch cancels gctx; stop between
					// records, never mid-record.
					if gctx.Err() != nil {
						break
					}
					if err := reconciler.Reconcile(gctx, userID, rec); err != nil {
						log.Printf("Record in batch %d of job %s failed: %v", batchNumber, jobID, err)
						atomic.AddInt64(&failed, 1)
					} else {
						atomic.AddInt64(&success, 1)
					}
					processed++
				}

				if err := s.logs.IncrementProgress(gctx, jobID, processed); err != nil {
					log.Printf("Warning: progress update failed for job %s batch %d: %v", jobID, batchNumber, err)
				}
				return gctx.Err()
			})
		}

		if err := g.Wait(); err != nil {
			if errors.Is(err, errJobCancelled) || errors.Is(err, context.Canceled) {
				cancelled = true
			} else {
				log.Printf("Warning: wave ending at batch %d of job %s: %v", waveEnd, jobID, err)
			}
		}
	}

	return int(atomic.LoadInt64(&success)), int(atomic.LoadInt64(&failed)), cancelled
}

// isCancelled polls the job row for a cancellation requested by another
// caller. A failed poll is treated as not cancelled; aborting a healthy job
// over a flaky read would be worse.
func (s *Scheduler) isCancelled(ctx context.Context, jobID string) bool {
	job, err := s.logs.GetByID(ctx, jobID)
	if err != nil {
		log.Printf("Warning: cancellation poll failed for job %s: %v", jobID, err)
		return false
	}
	return job.Status == models.SyncStatusCancelled
}

// advanceTerminal writes the final status with retries. The store itself
// refuses to overwrite a cancelled job, so a stale completion after a cancel
// is dropped there.
func (s *Scheduler) advanceTerminal(ctx context.Context, jobID string, status models.SyncJobStatus, message string) {
	var err error
	for attempt := 1; attempt <= terminalWriteAttempts; attempt++ {
		if err = s.logs.Advance(ctx, jobID, status, message, nil); err == nil {
			return
		}
		log.Printf("Warning: terminal status write failed for job %s (attempt %d/%d): %v", jobID, attempt, terminalWriteAttempts, err)
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	log.Printf("ERROR: job %s could not persist terminal status %s, sweeper will fail it: %v", jobID, status, err)
}

// partition splits the record set into contiguous batches of batchSize. The
// last batch carries the remainder.
func partition(records []soc.Record, batchSize int) [][]soc.Record {
	if len(records) == 0 {
		return nil
	}
	batches := make([][]soc.Record, 0, (len(records)+batchSize-1)/batchSize)
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}
