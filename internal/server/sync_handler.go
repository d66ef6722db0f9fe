package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitorcpx/hrsync-worker/internal/models"
	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/worker"
)

// SyncLogStore is the slice of the sync log repository the handlers need.
type SyncLogStore interface {
	Create(ctx context.Context, userID string, syncType models.SyncType, parentID *string) (*models.SyncJob, error)
	GetByID(ctx context.Context, jobID string) (*models.SyncJob, error)
	Advance(ctx context.Context, jobID string, status models.SyncJobStatus, message string, errorDetails *string) error
	MarkCancelled(ctx context.Context, jobID string) error
	ListActive(ctx context.Context, userID string) ([]models.SyncJob, error)
	HasActive(ctx context.Context, userID string, syncType models.SyncType) (bool, error)
	PurgeTerminal(ctx context.Context, userID string) (int64, error)
}

// Enqueuer hands accepted jobs to the background pool.
type Enqueuer interface {
	Enqueue(req worker.JobRequest) error
}

// SyncHandler is the job control surface: start, poll, cancel, purge. The
// start response never waits for the background work.
type SyncHandler struct {
	logs       SyncLogStore
	dispatcher Enqueuer
}

func NewSyncHandler(logs SyncLogStore, dispatcher Enqueuer) *SyncHandler {
	return &SyncHandler{logs: logs, dispatcher: dispatcher}
}

// StartSync creates the job row, enqueues the background work and returns
// immediately with the job id.
func (h *SyncHandler) StartSync(c *gin.Context) {
	userID := ownerID(c)

	syncType, err := models.ParseSyncType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	active, err := h.logs.HasActive(c.Request.Context(), userID, syncType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to check running syncs",
		})
		return
	}
	if active {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "a sync of this type is already running",
		})
		return
	}

	job, err := h.logs.Create(c.Request.Context(), userID, syncType, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to create sync job",
		})
		return
	}

	if err := h.dispatcher.Enqueue(worker.JobRequest{JobID: job.ID, UserID: userID, Type: syncType}); err != nil {
		log.Printf("Failed to enqueue job %s: %v", job.ID, err)
		details := err.Error()
		_ = h.logs.Advance(c.Request.Context(), job.ID, models.SyncStatusError, "Sync could not be scheduled", &details)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "sync could not be scheduled, try again later",
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"jobId":   job.ID,
		"message": "Sync started",
	})
}

// JobStatus returns the full job row for UI polling.
func (h *SyncHandler) JobStatus(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, job)
}

// CancelJob requests cooperative cancellation of a job and its children.
// The response confirms the request; cessation of in-flight work is
// asynchronous.
func (h *SyncHandler) CancelJob(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	if job.Status.IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "sync already finished",
		})
		return
	}

	if err := h.logs.MarkCancelled(c.Request.Context(), job.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to cancel sync",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sync cancellation requested",
	})
}

// ListActiveJobs returns the owner's non-terminal jobs.
func (h *SyncHandler) ListActiveJobs(c *gin.Context) {
	jobs, err := h.logs.ListActive(c.Request.Context(), ownerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to list active syncs",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// PurgeHistory deletes the owner's finished jobs; active jobs are protected.
func (h *SyncHandler) PurgeHistory(c *gin.Context) {
	deleted, err := h.logs.PurgeTerminal(c.Request.Context(), ownerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "failed to purge sync history",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": deleted,
	})
}

// ownedJob loads the :id job and enforces owner scoping. A false return
// means the response was already written.
func (h *SyncHandler) ownedJob(c *gin.Context) (*models.SyncJob, bool) {
	job, err := h.logs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSyncJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "sync job not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "failed to load sync job",
			})
		}
		return nil, false
	}

	if job.UserID != ownerID(c) {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "sync job belongs to another account",
		})
		return nil, false
	}

	return job, true
}
