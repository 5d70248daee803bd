// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meddoc-anonymizer/internal/observability"
	"meddoc-anonymizer/internal/redactors"
)

// ProcessFunc runs the pipeline for one document.
type ProcessFunc func(ctx context.Context, job *Job) (*redactors.EntityReport, error)

// WorkerPool runs document jobs on a fixed number of goroutines
type WorkerPool struct {
	workers  int
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	process  ProcessFunc
	observer *observability.StandardObserver
}

// Job represents one document to process
type Job struct {
	Index      int // Position in the submitted batch
	JobID      string
	DocumentID string
	Text       string
	Language   string
}

// Result represents processing results
type Result struct {
	Index      int
	JobID      string
	DocumentID string
	Report     *redactors.EntityReport
	Error      error
	Duration   time.Duration
}

// NewWorkerPool creates a worker pool. workers below 1 is treated as 1.
func NewWorkerPool(workers int, process ProcessFunc, observer *observability.StandardObserver) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		process:  process,
		observer: observer,
	}
}

// Start initializes worker goroutines. Cancelling ctx stops dispatching:
// queued jobs are answered with ctx.Err() instead of being processed.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.ctx, wp.cancel = context.WithCancel(ctx)
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for the workers to drain the queue and closes the results channel.
// Call it after the last Submit and Close.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit adds a job to the queue. It returns false when the pool was cancelled.
func (wp *WorkerPool) Submit(job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Close signals that no more jobs will be submitted.
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		wp.results <- wp.processJob(job, id)
	}
}

// processJob executes a single job, turning a panic into a job error
func (wp *WorkerPool) processJob(job *Job, workerID int) (result *Result) {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_job", job.JobID)

	result = &Result{Index: job.Index, JobID: job.JobID, DocumentID: job.DocumentID}
	defer func() {
		if p := recover(); p != nil {
			result.Report = nil
			result.Error = fmt.Errorf("document %s: panic: %v", job.DocumentID, p)
		}
		result.Duration = time.Since(start)

		entities := 0
		if result.Report != nil {
			entities = result.Report.Statistics.TotalEntities
		}
		finishTiming(result.Error == nil, map[string]interface{}{
			"worker_id": workerID,
			"entities":  entities,
			"had_error": result.Error != nil,
		})
	}()

	if err := wp.ctx.Err(); err != nil {
		result.Error = err
		return result
	}
	result.Report, result.Error = wp.process(wp.ctx, job)
	return result
}
