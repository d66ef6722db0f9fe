package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vitorcpx/hrsync-worker/internal/models"
	"github.com/vitorcpx/hrsync-worker/internal/repository"
	"github.com/vitorcpx/hrsync-worker/internal/service"
	"github.com/vitorcpx/hrsync-worker/internal/soc"
)

// fakeLogStore backs both the pipeline's failure reporting and the
// scheduler's progress writes.
type fakeLogStore struct {
	mu  sync.Mutex
	job models.SyncJob
}

func newFakeLogStore(jobID string) *fakeLogStore {
	return &fakeLogStore{job: models.SyncJob{ID: jobID, Status: models.SyncStatusPending}}
}

func (f *fakeLogStore) GetByID(ctx context.Context, jobID string) (*models.SyncJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job := f.job
	return &job, nil
}

func (f *fakeLogStore) Advance(ctx context.Context, jobID string, status models.SyncJobStatus, message string, errorDetails *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.job.Status.IsTerminal() {
		return nil
	}
	f.job.Status = status
	f.job.Message = message
	f.job.ErrorDetails = errorDetails
	return nil
}

func (f *fakeLogStore) SetTotals(ctx context.Context, jobID string, totalRecords int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.job.TotalRecords = &totalRecords
	return nil
}

func (f *fakeLogStore) IncrementProgress(ctx context.Context, jobID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.job.ProcessedRecords += delta
	return nil
}

func (f *fakeLogStore) SetProgress(ctx context.Context, jobID string, processed int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if processed >= f.job.ProcessedRecords {
		f.job.ProcessedRecords = processed
	}
	return nil
}

func (f *fakeLogStore) SetBatchInfo(ctx context.Context, jobID string, batch, totalBatches int) error {
	return nil
}

func (f *fakeLogStore) snapshot() models.SyncJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.job
}

type fakeCredentialStore struct {
	cred *models.SOCCredential
	err  error
}

func (f *fakeCredentialStore) GetByUserAndType(ctx context.Context, userID string, syncType models.SyncType) (*models.SOCCredential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cred, nil
}

type fakeGateway struct {
	records []soc.Record
	err     error
}

func (f *fakeGateway) FetchRecords(ctx context.Context, params soc.ExportParams) ([]soc.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type nopReconciler struct{}

func (nopReconciler) Reconcile(ctx context.Context, userID string, rec soc.Record) error {
	return nil
}

func newTestPipeline(store *fakeLogStore, creds *fakeCredentialStore, gateway *fakeGateway) *Pipeline {
	scheduler := service.NewScheduler(store, service.SchedulerOptions{BatchSize: 100})
	reconcilers := map[models.SyncType]service.RecordReconciler{
		models.SyncTypeCompany: nopReconciler{},
	}
	return NewPipeline(store, creds, gateway, scheduler, reconcilers)
}

func TestPipeline_HappyPathCompletes(t *testing.T) {
	store := newFakeLogStore("job-1")
	creds := &fakeCredentialStore{cred: &models.SOCCredential{AccountCode: "423"}}
	gateway := &fakeGateway{records: []soc.Record{{"CODIGO": "1"}, {"CODIGO": "2"}}}

	newTestPipeline(store, creds, gateway).Execute(context.Background(),
		JobRequest{JobID: "job-1", UserID: "user-1", Type: models.SyncTypeCompany})

	job := store.snapshot()
	if job.Status != models.SyncStatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", job.Status, job.Message)
	}
	if job.ProcessedRecords != 2 {
		t.Errorf("expected 2 processed, got %d", job.ProcessedRecords)
	}
}

func TestPipeline_MissingCredentialsFailsJob(t *testing.T) {
	store := newFakeLogStore("job-1")
	creds := &fakeCredentialStore{err: repository.ErrCredentialNotFound}

	newTestPipeline(store, creds, &fakeGateway{}).Execute(context.Background(),
		JobRequest{JobID: "job-1", UserID: "user-1", Type: models.SyncTypeCompany})

	job := store.snapshot()
	if job.Status != models.SyncStatusError {
		t.Fatalf("expected error status, got %s", job.Status)
	}
	if !strings.Contains(job.Message, "credentials not configured") {
		t.Errorf("unexpected message: %q", job.Message)
	}
}

func TestPipeline_UnsupportedTypeFailsJob(t *testing.T) {
	store := newFakeLogStore("job-1")
	creds := &fakeCredentialStore{cred: &models.SOCCredential{}}

	newTestPipeline(store, creds, &fakeGateway{}).Execute(context.Background(),
		JobRequest{JobID: "job-1", UserID: "user-1", Type: models.SyncTypeEmployee})

	if job := store.snapshot(); job.Status != models.SyncStatusError {
		t.Fatalf("expected error status, got %s", job.Status)
	}
}

func TestPipeline_InvalidPayloadKeepsSnippet(t *testing.T) {
	store := newFakeLogStore("job-1")
	creds := &fakeCredentialStore{cred: &models.SOCCredential{}}
	gateway := &fakeGateway{err: &soc.InvalidFormatError{
		Reason:  "response is not a JSON array",
		Snippet: `{"erro":"credenciais invalidas"}`,
	}}

	newTestPipeline(store, creds, gateway).Execute(context.Background(),
		JobRequest{JobID: "job-1", UserID: "user-1", Type: models.SyncTypeCompany})

	job := store.snapshot()
	if job.Status != models.SyncStatusError {
		t.Fatalf("expected error status, got %s", job.Status)
	}
	if job.ErrorDetails == nil || !strings.Contains(*job.ErrorDetails, "credenciais invalidas") {
		t.Errorf("expected payload snippet in error details, got %v", job.ErrorDetails)
	}
}

type blockingExecutor struct {
	started chan JobRequest
	release chan struct{}
}

func (e *blockingExecutor) Execute(ctx context.Context, req JobRequest) {
	e.started <- req
	select {
	case <-e.release:
	case <-ctx.Done():
	}
}

func TestDispatcher_EnqueueAndExecute(t *testing.T) {
	executor := &blockingExecutor{started: make(chan JobRequest, 1), release: make(chan struct{})}
	dispatcher := NewDispatcher(executor, 1, 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)

	req := JobRequest{JobID: "job-1", UserID: "user-1", Type: models.SyncTypeCompany}
	if err := dispatcher.Enqueue(req); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	select {
	case got := <-executor.started:
		if got.JobID != "job-1" {
			t.Errorf("unexpected request: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the job")
	}
	close(executor.release)
}

func TestDispatcher_FullQueueRejects(t *testing.T) {
	executor := &blockingExecutor{started: make(chan JobRequest, 1), release: make(chan struct{})}
	// one worker, queue of one: the worker blocks on the first job, the
	// second fills the queue, the third must be rejected
	dispatcher := NewDispatcher(executor, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)

	if err := dispatcher.Enqueue(JobRequest{JobID: "job-1"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	<-executor.started

	if err := dispatcher.Enqueue(JobRequest{JobID: "job-2"}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := dispatcher.Enqueue(JobRequest{JobID: "job-3"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	close(executor.release)
}

func TestDispatcher_WaitAfterCancel(t *testing.T) {
	executor := &blockingExecutor{started: make(chan JobRequest, 1), release: make(chan struct{})}
	dispatcher := NewDispatcher(executor, 2, 4)

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not exit after cancel")
	}
}
