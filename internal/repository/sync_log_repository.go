package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vitorcpx/hrsync-worker/internal/models"
	"gorm.io/gorm"
)

var ErrSyncJobNotFound = errors.New("sync job not found")

// SyncLogRepository is the persisted ledger of synchronization jobs. It is
// the only shared mutable state between the HTTP surface and the running
// pipeline, so every status write guards against regressing out of a
// terminal status.
type SyncLogRepository struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Create inserts a new pending job for one owner and entity type. ParentID
// links continuation jobs so cancellation can cascade.
func (r *SyncLogRepository) Create(ctx context.Context, userID string, syncType models.SyncType, parentID *string) (*models.SyncJob, error) {
	now := time.Now()
	job := models.SyncJob{
		ID:        uuid.New().String(),
		Type:      syncType,
		Status:    models.SyncStatusPending,
		UserID:    userID,
		Message:   "Sync queued",
		ParentID:  parentID,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, fmt.Errorf("failed to create sync job: %w", err)
	}
	return &job, nil
}

// GetByID retrieves one job row.
func (r *SyncLogRepository) GetByID(ctx context.Context, jobID string) (*models.SyncJob, error) {
	var job models.SyncJob
	result := r.db.WithContext(ctx).First(&job, "id = ?", jobID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSyncJobNotFound
		}
		return nil, fmt.Errorf("failed to get sync job: %w", result.Error)
	}
	return &job, nil
}

// Advance moves the job to a new status with a human-readable message. When
// the new status is terminal, completed_at is stamped. A job already in a
// terminal status is never touched; the stale write is dropped and logged.
func (r *SyncLogRepository) Advance(ctx context.Context, jobID string, status models.SyncJobStatus, message string, errorDetails *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"message":    message,
		"updated_at": time.Now(),
	}
	if errorDetails != nil {
		updates["error_details"] = *errorDetails
	}
	if status.IsTerminal() {
		now := time.Now()
		updates["completed_at"] = &now
	}

	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("id = ? AND status NOT IN ?", jobID, models.TerminalStatuses).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to advance sync job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		log.Printf("Sync job %s already terminal, dropping transition to %s", jobID, status)
	}
	return nil
}

// SetTotals records the full record count once the fetch has resolved it.
// Terminal rows are never touched; a cancelled job keeps the counters it died
// with.
func (r *SyncLogRepository) SetTotals(ctx context.Context, jobID string, totalRecords int) error {
	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("id = ? AND status NOT IN ?", jobID, models.TerminalStatuses).
		Updates(map[string]interface{}{
			"total_records": totalRecords,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set totals: %w", result.Error)
	}
	return nil
}

// IncrementProgress adds delta to processed_records atomically in the store.
// Concurrent batch writers therefore never lose updates; the counter is
// monotonic by construction. In-flight batches reporting after a cancellation
// are dropped by the terminal guard.
func (r *SyncLogRepository) IncrementProgress(ctx context.Context, jobID string, delta int) error {
	if delta <= 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("id = ? AND status NOT IN ?", jobID, models.TerminalStatuses).
		Updates(map[string]interface{}{
			"processed_records": gorm.Expr("processed_records + ?", delta),
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to increment progress: %w", result.Error)
	}
	return nil
}

// SetProgress snapshots processed_records to an absolute value. The guard
// keeps the counter monotonic against concurrent incremental writers.
func (r *SyncLogRepository) SetProgress(ctx context.Context, jobID string, processed int) error {
	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("id = ? AND processed_records <= ? AND status NOT IN ?", jobID, processed, models.TerminalStatuses).
		Updates(map[string]interface{}{
			"processed_records": processed,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set progress: %w", result.Error)
	}
	return nil
}

// SetBatchInfo records which batch last reported, purely for UI polling.
// Concurrent batches overwrite each other here; last write wins.
func (r *SyncLogRepository) SetBatchInfo(ctx context.Context, jobID string, batch, totalBatches int) error {
	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("id = ? AND status NOT IN ?", jobID, models.TerminalStatuses).
		Updates(map[string]interface{}{
			"batch":         batch,
			"total_batches": totalBatches,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set batch info: %w", result.Error)
	}
	return nil
}

// MarkCancelled transitions a job and all its children (parent_id back
// references) to cancelled. Rows already terminal stay as they are.
func (r *SyncLogRepository) MarkCancelled(ctx context.Context, jobID string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.SyncStatusCancelled,
		"message":      "Sync cancelled by user",
		"completed_at": &now,
		"updated_at":   now,
	}

	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("(id = ? OR parent_id = ?) AND status NOT IN ?", jobID, jobID, models.TerminalStatuses).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to cancel sync job: %w", result.Error)
	}

	log.Printf("Cancelled sync job %s (%d row(s) including children)", jobID, result.RowsAffected)
	return nil
}

// ListActive returns the owner's jobs in a non-terminal status, newest first.
func (r *SyncLogRepository) ListActive(ctx context.Context, userID string) ([]models.SyncJob, error) {
	var jobs []models.SyncJob
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, models.ActiveStatuses).
		Order("created_at DESC").
		Find(&jobs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", result.Error)
	}
	return jobs, nil
}

// HasActive reports whether the owner already has a running job of the given
// type, to prevent overlapping syncs.
func (r *SyncLogRepository) HasActive(ctx context.Context, userID string, syncType models.SyncType) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("user_id = ? AND type = ? AND status IN ?", userID, syncType, models.ActiveStatuses).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to count active jobs: %w", result.Error)
	}
	return count > 0, nil
}

// PurgeTerminal bulk-deletes the owner's finished job history. Active jobs
// are never purged regardless of age.
func (r *SyncLogRepository) PurgeTerminal(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, models.TerminalStatuses).
		Delete(&models.SyncJob{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sync history: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// FailStale moves jobs whose last progress update is older than the
// threshold to error. A crashed worker otherwise leaves them in_progress
// forever.
func (r *SyncLogRepository) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	now := time.Now()
	cutoff := now.Add(-olderThan)
	details := "job stalled: no progress update within the staleness threshold"

	result := r.db.WithContext(ctx).Model(&models.SyncJob{}).
		Where("status IN ? AND updated_at < ?", models.ActiveStatuses, cutoff).
		Updates(map[string]interface{}{
			"status":        models.SyncStatusError,
			"message":       "Sync stalled and was marked as failed",
			"error_details": details,
			"completed_at":  &now,
			"updated_at":    now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to fail stale jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
