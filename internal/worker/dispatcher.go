package worker

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrQueueFull is returned when the dispatcher cannot accept another job
// without blocking the HTTP caller.
var ErrQueueFull = errors.New("sync queue is full")

// Executor runs one job to completion.
type Executor interface {
	Execute(ctx context.Context, req JobRequest)
}

// Dispatcher decouples the HTTP surface from job execution: Enqueue returns
// immediately and a bounded worker pool picks the job up. Crash recovery is
// the sweeper's responsibility, not the queue's; the queue only carries
// wake-ups for rows already persisted in sync_logs.
type Dispatcher struct {
	queue    chan JobRequest
	executor Executor
	workers  int
	wg       sync.WaitGroup
}

func NewDispatcher(executor Executor, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		queue:    make(chan JobRequest, queueSize),
		executor: executor,
		workers:  workers,
	}
}

// Start launches the worker pool. Workers drain until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	log.Printf("Starting %d sync worker(s)", d.workers)
	for i := 1; i <= d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Printf("Sync worker %d shutting down", id)
			return
		case req := <-d.queue:
			d.executor.Execute(ctx, req)
		}
	}
}

// Enqueue hands a job to the pool without blocking. A full queue is a
// caller-visible error; the job row stays pending and the sweeper eventually
// fails it if it is never re-enqueued.
func (d *Dispatcher) Enqueue(req JobRequest) error {
	select {
	case d.queue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Wait blocks until all workers have exited after a Start context cancel.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
