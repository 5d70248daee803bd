// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddoc-anonymizer/internal/redactors"
)

func upperProcess(ctx context.Context, job *Job) (*redactors.EntityReport, error) {
	if job.Text == "" {
		return nil, errors.New("empty document")
	}
	if job.Text == "boom" {
		panic("detector exploded")
	}
	// Later documents finish first so ordering is exercised
	time.Sleep(time.Duration(5-job.Index%5) * time.Millisecond)
	return &redactors.EntityReport{
		AnonymizedText: strings.ToUpper(job.Text),
		Statistics:     redactors.Statistics{TotalEntities: len(job.Text)},
	}, nil
}

func TestProcessDocuments_PreservesOrder(t *testing.T) {
	texts := []string{"a", "bb", "", "dddd", "boom", "ffffff", "g"}
	jobs := make([]*Job, len(texts))
	for i, text := range texts {
		jobs[i] = &Job{DocumentID: text + "-doc", Text: text}
	}

	var mu sync.Mutex
	var progress []int
	pp := NewParallelProcessor(3, upperProcess, nil)
	results, stats, err := pp.ProcessDocuments(context.Background(), jobs, func(completed, total int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, len(texts), total)
		progress = append(progress, completed)
	})
	require.NoError(t, err)
	require.Len(t, results, len(texts))

	for i, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, i, r.Index)
		assert.Equal(t, texts[i]+"-doc", r.DocumentID)
		switch texts[i] {
		case "":
			assert.EqualError(t, r.Error, "empty document")
		case "boom":
			require.Error(t, r.Error)
			assert.Contains(t, r.Error.Error(), "panic")
			assert.Nil(t, r.Report)
		default:
			require.NoError(t, r.Error)
			assert.Equal(t, strings.ToUpper(texts[i]), r.Report.AnonymizedText)
		}
	}

	assert.Equal(t, 7, stats.TotalDocuments)
	assert.Equal(t, 5, stats.ProcessedDocuments)
	assert.Equal(t, 2, stats.FailedDocuments)
	assert.Equal(t, 1+2+4+6+1, stats.TotalEntities)
	assert.Equal(t, 3, stats.WorkerCount)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, progress)
}

func TestProcessDocuments_BoundedConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	process := func(ctx context.Context, job *Job) (*redactors.EntityReport, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return &redactors.EntityReport{}, nil
	}

	jobs := make([]*Job, 20)
	for i := range jobs {
		jobs[i] = &Job{Text: "x"}
	}

	_, stats, err := NewParallelProcessor(2, process, nil).ProcessDocuments(context.Background(), jobs, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 20, stats.ProcessedDocuments)
}

func TestProcessDocuments_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	process := func(ctx context.Context, job *Job) (*redactors.EntityReport, error) {
		if calls.Add(1) == 1 {
			cancel()
		}
		return &redactors.EntityReport{}, nil
	}

	jobs := make([]*Job, 50)
	for i := range jobs {
		jobs[i] = &Job{Text: "x"}
	}

	results, stats, err := NewParallelProcessor(1, process, nil).ProcessDocuments(ctx, jobs, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 50)
	for _, r := range results {
		require.NotNil(t, r)
	}
	assert.Less(t, int(calls.Load()), 50)
	assert.Positive(t, stats.FailedDocuments)
	assert.ErrorIs(t, results[49].Error, context.Canceled)
}

func TestProcessDocuments_Empty(t *testing.T) {
	results, stats, err := NewParallelProcessor(0, upperProcess, nil).ProcessDocuments(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, stats.TotalDocuments)
	assert.Equal(t, 1, stats.WorkerCount)
}
