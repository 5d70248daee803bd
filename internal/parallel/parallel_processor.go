// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"meddoc-anonymizer/internal/observability"
)

// ParallelProcessor fans a batch of documents out to a worker pool
type ParallelProcessor struct {
	workers  int
	process  ProcessFunc
	observer *observability.StandardObserver
}

// ProcessingStats tracks parallel processing statistics
type ProcessingStats struct {
	TotalDocuments     int           `json:"total_documents"`
	ProcessedDocuments int           `json:"processed_documents"`
	FailedDocuments    int           `json:"failed_documents"`
	TotalEntities      int           `json:"total_entities"`
	TotalDuration      time.Duration `json:"total_duration_ms"`
	WorkerCount        int           `json:"worker_count"`
	AvgDocumentTime    time.Duration `json:"avg_document_time_ms"`
}

// NewParallelProcessor creates a processor with the given worker count.
// Zero or less selects runtime.NumCPU(), capped at 8.
func NewParallelProcessor(workers int, process ProcessFunc, observer *observability.StandardObserver) *ParallelProcessor {
	if workers < 1 {
		workers = min(runtime.NumCPU(), 8)
	}
	return &ParallelProcessor{
		workers:  workers,
		process:  process,
		observer: observer,
	}
}

// ProgressCallback is called when a document is completed
type ProgressCallback func(completed, total int, documentID string)

// ProcessDocuments runs every job and returns the results in input order.
// Per-document failures are reported in Result.Error; the returned error is
// only set when ctx ended before every document was answered.
func (pp *ParallelProcessor) ProcessDocuments(ctx context.Context, jobs []*Job, progressCallback ProgressCallback) ([]*Result, *ProcessingStats, error) {
	start := time.Now()
	finishTiming := pp.observer.StartTiming("parallel_processor", "process_documents", "batch")

	pool := NewWorkerPool(min(pp.workers, max(len(jobs), 1)), pp.process, pp.observer)
	pool.Start(ctx)

	// Submit jobs in a separate goroutine to prevent deadlock
	go func() {
		defer pool.Close()
		for i, job := range jobs {
			job.Index = i
			if job.JobID == "" {
				job.JobID = fmt.Sprintf("job_%d", i)
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	// Stop closes Results once the workers have drained the queue
	go pool.Stop()

	results := make([]*Result, len(jobs))
	stats := &ProcessingStats{TotalDocuments: len(jobs), WorkerCount: pool.Workers()}
	var busy time.Duration
	completed := 0

	for result := range pool.Results() {
		results[result.Index] = result
		completed++
		busy += result.Duration

		if result.Error != nil {
			stats.FailedDocuments++
			pp.observer.LogOperation(observability.StandardObservabilityData{
				Component: "parallel_processor",
				Operation: "document_processing",
				Target:    result.DocumentID,
				Success:   false,
				Error:     result.Error.Error(),
			})
		} else {
			stats.ProcessedDocuments++
			if result.Report != nil {
				stats.TotalEntities += result.Report.Statistics.TotalEntities
			}
		}

		if progressCallback != nil {
			progressCallback(completed, len(jobs), result.DocumentID)
		}
	}

	// Jobs never submitted or skipped because ctx ended
	var ctxErr error
	for i, r := range results {
		if r == nil {
			ctxErr = context.Cause(ctx)
			results[i] = &Result{Index: i, JobID: jobs[i].JobID, DocumentID: jobs[i].DocumentID, Error: ctxErr}
			stats.FailedDocuments++
			continue
		}
		if ctx.Err() != nil && errors.Is(r.Error, ctx.Err()) {
			ctxErr = ctx.Err()
		}
	}

	stats.TotalDuration = time.Since(start)
	stats.AvgDocumentTime = busy / time.Duration(max(completed, 1))

	finishTiming(ctxErr == nil, map[string]interface{}{
		"total_documents":     stats.TotalDocuments,
		"processed_documents": stats.ProcessedDocuments,
		"failed_documents":    stats.FailedDocuments,
		"total_entities":      stats.TotalEntities,
		"worker_count":        stats.WorkerCount,
	})

	return results, stats, ctxErr
}
