// Package worker runs batch consultations on a fixed pool of goroutines.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/metrics"
)

// Consulter runs a single consultation.
type Consulter interface {
	Consult(ctx context.Context, text string, kind identifier.Kind) (*consultation.Result, bool)
}

// Item is one entry of a batch.
type Item struct {
	Text string          `json:"text"`
	Kind identifier.Kind `json:"kind"`
}

// JobResult is the outcome of one batch item.
type JobResult struct {
	JobID      string               `json:"job_id"`
	Input      string               `json:"input"`
	Result     *consultation.Result `json:"result"`
	Cached     bool                 `json:"cached"`
	DurationMs int64                `json:"duration_ms"`

	abandoned bool
}

// BatchStats summarizes a batch.
type BatchStats struct {
	Total     int           `json:"total"`
	Success   int           `json:"success"`
	Errors    int           `json:"errors"`
	Cached    int           `json:"cached"`
	Duration  time.Duration `json:"duration"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
}

// BatchResponse holds the results in input order.
type BatchResponse struct {
	Results []JobResult `json:"results"`
	Stats   BatchStats  `json:"stats"`
}

// PoolStats describes the pool.
type PoolStats struct {
	Workers       int           `json:"workers"`
	ActiveWorkers int           `json:"active_workers"`
	QueueSize     int           `json:"queue_size"`
	TotalJobs     int64         `json:"total_jobs"`
	CompletedJobs int64         `json:"completed_jobs"`
	FailedJobs    int64         `json:"failed_jobs"`
	Uptime        time.Duration `json:"uptime"`
}

type job struct {
	id     string
	ctx    context.Context
	item   Item
	result chan JobResult
}

// Pool runs consultations on a fixed number of workers.
type Pool struct {
	workers   int
	jobQueue  chan *job
	consulter Consulter
	logger    *logrus.Logger
	metrics   *metrics.Metrics

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	failedJobs    atomic.Int64
	activeWorkers atomic.Int32
	startTime     time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started atomic.Bool
}

// NewPool creates a pool; call Start before submitting work.
func NewPool(workers, queueSize int, consulter Consulter, logger *logrus.Logger, m *metrics.Metrics) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:   workers,
		jobQueue:  make(chan *job, queueSize),
		consulter: consulter,
		logger:    logger,
		metrics:   m,
		startTime: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (p *Pool) Start() {
	if !p.started.CompareAndSwap(false, true) {
		return
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}

	p.logger.WithField("workers", p.workers).Info("Worker pool started")
}

// Stop stops the workers and waits for running consultations to return.
// Queued jobs are abandoned.
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// ProcessBatch consults every item and returns the results in input order.
// Items still pending when ctx ends are reported as consultation errors.
func (p *Pool) ProcessBatch(ctx context.Context, items []Item) BatchResponse {
	start := time.Now()

	jobs := make([]*job, len(items))
	for i, item := range items {
		jobs[i] = &job{
			id:     uuid.New().String(),
			ctx:    ctx,
			item:   item,
			result: make(chan JobResult, 1),
		}
	}

	// The queue may be shorter than the batch, so submission runs apart
	// from collection.
	go func() {
		for _, j := range jobs {
			if !p.submit(ctx, j) {
				j.result <- abandoned(ctx, j)
			}
		}
	}()

	response := BatchResponse{
		Results: make([]JobResult, len(jobs)),
	}
	for i, j := range jobs {
		var result JobResult
		select {
		case result = <-j.result:
		case <-ctx.Done():
			result = abandoned(ctx, j)
		case <-p.ctx.Done():
			result = abandoned(p.ctx, j)
		}
		if result.abandoned {
			p.metrics.IncBatchJob("abandoned")
		}

		response.Results[i] = result
		switch {
		case result.Result.Succeeded() && result.Cached:
			response.Stats.Cached++
			response.Stats.Success++
		case result.Result.Succeeded():
			response.Stats.Success++
		default:
			response.Stats.Errors++
		}
	}

	end := time.Now()
	response.Stats.Total = len(items)
	response.Stats.Duration = end.Sub(start)
	response.Stats.StartTime = start
	response.Stats.EndTime = end

	return response
}

func (p *Pool) submit(ctx context.Context, j *job) bool {
	select {
	case p.jobQueue <- j:
		p.totalJobs.Add(1)
		return true
	case <-ctx.Done():
		return false
	case <-p.ctx.Done():
		return false
	}
}

// abandoned builds the result of a job that never ran. It is recorded in
// metrics by ProcessBatch, once per collected result.
func abandoned(ctx context.Context, j *job) JobResult {
	message := "batch stopped before the consultation ran"
	if err := ctx.Err(); err != nil {
		message = err.Error()
	}
	return JobResult{
		JobID:  j.id,
		Input:  j.item.Text,
		Result: consultation.ErrorResult(consultation.ToolFor(j.item.Kind), consultation.CodeConsultation, message),

		abandoned: true,
	}
}

// GetStats returns pool statistics
func (p *Pool) GetStats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		ActiveWorkers: int(p.activeWorkers.Load()),
		QueueSize:     len(p.jobQueue),
		TotalJobs:     p.totalJobs.Load(),
		CompletedJobs: p.completedJobs.Load(),
		FailedJobs:    p.failedJobs.Load(),
		Uptime:        time.Since(p.startTime),
	}
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	logger := p.logger.WithField("worker_id", id)
	logger.Debug("Worker started")

	for {
		select {
		case j := <-p.jobQueue:
			p.process(logger, j)
		case <-p.ctx.Done():
			logger.Debug("Worker stopped by context")
			return
		}
	}
}

func (p *Pool) process(logger *logrus.Entry, j *job) {
	p.activeWorkers.Add(1)
	defer p.activeWorkers.Add(-1)

	logger = logger.WithField("job_id", j.id)

	if j.ctx.Err() != nil {
		j.result <- abandoned(j.ctx, j)
		return
	}

	started := time.Now()
	result, cached := p.consulter.Consult(j.ctx, j.item.Text, j.item.Kind)
	duration := time.Since(started)

	if result.Succeeded() {
		p.completedJobs.Add(1)
		p.metrics.IncBatchJob("completed")
		logger.WithFields(logrus.Fields{
			"cached":   cached,
			"duration": duration.String(),
		}).Info("Job completed successfully")
	} else {
		p.failedJobs.Add(1)
		p.metrics.IncBatchJob("failed")
		entry := logger.WithField("duration", duration.String())
		if result != nil && result.Error != nil {
			entry = entry.WithField("code", result.Error.Code)
		}
		entry.Warn("Job failed")
	}

	j.result <- JobResult{
		JobID:      j.id,
		Input:      j.item.Text,
		Result:     result,
		Cached:     cached,
		DurationMs: duration.Milliseconds(),
	}
}
