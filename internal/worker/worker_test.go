package worker

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/logger"
	"github.com/nexconsult/justice-tools/internal/metrics"
)

type fakeConsulter struct {
	delay   time.Duration
	calls   atomic.Int32
	active  atomic.Int32
	maxSeen atomic.Int32
	block   chan struct{}
}

func (f *fakeConsulter) Consult(ctx context.Context, text string, kind identifier.Kind) (*consultation.Result, bool) {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return consultation.ErrorResult(consultation.ToolFor(kind), consultation.CodeConsultation, ctx.Err().Error()), false
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	switch {
	case strings.Contains(text, "fail"):
		return consultation.ErrorResult(consultation.ToolFor(kind), consultation.CodeNoIdentifier, "none"), false
	case strings.Contains(text, "cached"):
		return &consultation.Result{Status: consultation.StatusSuccess, Tool: consultation.ToolFor(kind)}, true
	default:
		return &consultation.Result{Status: consultation.StatusSuccess, Tool: consultation.ToolFor(kind)}, false
	}
}

func newTestPool(t *testing.T, workers, queue int, c Consulter) (*Pool, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	pool := NewPool(workers, queue, c, logger.Discard(), m)
	pool.Start()
	t.Cleanup(pool.Stop)
	return pool, m
}

func TestProcessBatchKeepsOrderAndCounts(t *testing.T) {
	consulter := &fakeConsulter{delay: 5 * time.Millisecond}
	pool, m := newTestPool(t, 3, 1, consulter)

	items := []Item{
		{Text: "one", Kind: identifier.KindCNJ},
		{Text: "fail", Kind: identifier.KindDocument},
		{Text: "cached", Kind: identifier.KindDocument},
		{Text: "four", Kind: identifier.KindCNJ},
		{Text: "five", Kind: identifier.KindCNJ},
	}

	resp := pool.ProcessBatch(context.Background(), items)

	require.Len(t, resp.Results, len(items))
	for i, result := range resp.Results {
		assert.Equal(t, items[i].Text, result.Input)
		assert.NotEmpty(t, result.JobID)
		require.NotNil(t, result.Result)
	}
	assert.Equal(t, consultation.ToolProcess, resp.Results[0].Result.Tool)
	assert.Equal(t, consultation.StatusError, resp.Results[1].Result.Status)
	assert.True(t, resp.Results[2].Cached)

	assert.Equal(t, 5, resp.Stats.Total)
	assert.Equal(t, 4, resp.Stats.Success)
	assert.Equal(t, 1, resp.Stats.Errors)
	assert.Equal(t, 1, resp.Stats.Cached)
	assert.Equal(t, int32(5), consulter.calls.Load())
	assert.LessOrEqual(t, consulter.maxSeen.Load(), int32(3))

	stats := pool.GetStats()
	assert.Equal(t, int64(5), stats.TotalJobs)
	assert.Equal(t, int64(4), stats.CompletedJobs)
	assert.Equal(t, int64(1), stats.FailedJobs)
	assert.Equal(t, 4.0, testutil.ToFloat64(m.BatchJobs.WithLabelValues("completed")))
}

func TestProcessBatchEmpty(t *testing.T) {
	pool, _ := newTestPool(t, 1, 1, &fakeConsulter{})

	resp := pool.ProcessBatch(context.Background(), nil)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.Stats.Total)
}

func TestProcessBatchCancelled(t *testing.T) {
	consulter := &fakeConsulter{block: make(chan struct{})}
	pool, _ := newTestPool(t, 1, 0, consulter)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp := pool.ProcessBatch(ctx, []Item{
		{Text: "a", Kind: identifier.KindCNJ},
		{Text: "b", Kind: identifier.KindCNJ},
		{Text: "c", Kind: identifier.KindCNJ},
	})

	require.Len(t, resp.Results, 3)
	assert.Equal(t, 3, resp.Stats.Errors)
	for _, result := range resp.Results {
		require.NotNil(t, result.Result.Error)
		assert.Equal(t, consultation.CodeConsultation, result.Result.Error.Code)
		assert.Contains(t, result.Result.Error.Message, "deadline exceeded")
	}
}

func TestProcessBatchCountsAbandonedJobsOnce(t *testing.T) {
	consulter := &fakeConsulter{}
	pool, m := newTestPool(t, 2, 0, consulter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := pool.ProcessBatch(ctx, []Item{
		{Text: "a", Kind: identifier.KindCNJ},
		{Text: "b", Kind: identifier.KindCPF},
		{Text: "c", Kind: identifier.KindCNPJ},
	})

	assert.Equal(t, 3, resp.Stats.Errors)
	assert.Equal(t, int32(0), consulter.calls.Load())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BatchJobs.WithLabelValues("abandoned")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.BatchJobs.WithLabelValues("failed")))
}

func TestConcurrentBatchesShareWorkers(t *testing.T) {
	consulter := &fakeConsulter{block: make(chan struct{})}
	pool := NewPool(2, 2, consulter, logger.Discard(), nil)
	pool.Start()
	pool.Start()

	var wg sync.WaitGroup
	results := make([]BatchResponse, 3)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			results[i] = pool.ProcessBatch(ctx, []Item{{Text: "x", Kind: identifier.KindCNJ}, {Text: "y", Kind: identifier.KindCNJ}})
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(consulter.block)
	wg.Wait()
	pool.Stop()

	for _, resp := range results {
		assert.Equal(t, 2, resp.Stats.Total)
		assert.Equal(t, 2, resp.Stats.Success)
	}
}
