package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vitorcpx/hrsync-worker/internal/models"
	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/service"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

// JobRequest is the wake-up handed from the HTTP surface to the dispatcher.
// The job row itself already exists in sync_logs.
type JobRequest struct {
	JobID  string
	UserID string
	Type   models.SyncType
}

// Gateway is the external source the pipeline fetches from.
type Gateway interface {
	FetchRecords(ctx context.Context, params soc.ExportParams) ([]soc.Record, error)
}

// CredentialStore loads per-owner provider credentials.
type CredentialStore interface {
	GetByUserAndType(ctx context.Context, userID string, syncType models.SyncType) (*models.SOCCredential, error)
}

// JobStore is the slice of the sync log repository the pipeline needs to
// report fatal failures.
type JobStore interface {
	Advance(ctx context.Context, jobID string, status models.SyncJobStatus, message string, errorDetails *string) error
}

// Pipeline runs one sync job end to end: credentials, fetch, reconcile.
// Fetch and credential failures are fatal to the job and recorded on the
// row; the caller of the HTTP surface only ever sees them by polling.
type Pipeline struct {
	logs        JobStore
	credentials CredentialStore
	gateway     Gateway
	scheduler   *service.Scheduler
	reconcilers map[models.SyncType]service.RecordReconciler
}

func NewPipeline(
	logs JobStore,
	credentials CredentialStore,
	gateway Gateway,
	scheduler *service.Scheduler,
	reconcilers map[models.SyncType]service.RecordReconciler,
) *Pipeline {
	return &Pipeline{
		logs:        logs,
		credentials: credentials,
		gateway:     gateway,
		scheduler:   scheduler,
		reconcilers: reconcilers,
	}
}

// Execute runs one job to a terminal status. It never returns an error; every
// failure path lands on the job row.
func (p *Pipeline) Execute(ctx context.Context, req JobRequest) {
	log.Printf("Starting sync job %s (type: %s, user: %s)", req.JobID, req.Type, req.UserID)

	reconciler, ok := p.reconcilers[req.Type]
	if !ok {
		p.fail(ctx, req.JobID, "Unsupported sync type", fmt.Sprintf("no reconciler registered for type %q", req.Type))
		return
	}

	cred, err := p.credentials.GetByUserAndType(ctx, req.UserID, req.Type)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			p.fail(ctx, req.JobID, "SOC credentials not configured for this sync type", err.Error())
		} else {
			p.fail(ctx, req.JobID, "Failed to load SOC credentials", err.Error())
		}
		return
	}

	records, err := p.gateway.FetchRecords(ctx, soc.ParamsForCredential(cred))
	if err != nil {
		p.fail(ctx, req.JobID, "Failed to fetch records from SOC", fetchErrorDetails(err))
		return
	}

	if err := p.scheduler.Run(ctx, req.JobID, req.UserID, reconciler, records); err != nil {
		p.fail(ctx, req.JobID, "Sync failed to start processing", err.Error())
		return
	}

	log.Printf("Sync job %s finished", req.JobID)
}

// fetchErrorDetails keeps the malformed-payload snippet when the gateway
// reports one; the dashboard shows it verbatim.
func fetchErrorDetails(err error) string {
	var formatErr *soc.InvalidFormatError
	if errors.As(err, &formatErr) {
		return fmt.Sprintf("%s; payload head: %s", formatErr.Reason, formatErr.Snippet)
	}
	return err.Error()
}

// fail writes the terminal error status with the same retry discipline as
// the scheduler's terminal write.
func (p *Pipeline) fail(ctx context.Context, jobID, message, details string) {
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		if err = p.logs.Advance(ctx, jobID, models.SyncStatusError, message, &details); err == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}
	log.Printf("ERROR: job %s could not persist error status, sweeper will fail it: %v", jobID, err)
}
