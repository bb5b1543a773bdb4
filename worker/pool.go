package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	sv "github.com/gofhir/schemavalidator"
)

// Validator is the interface that the pool uses to validate instances.
// *engine.Schema implements it.
type Validator interface {
	ValidateBytes(ctx context.Context, instance []byte) (*sv.Report, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, instance []byte) (*sv.Report, error)

// ValidateBytes calls f.
func (f ValidatorFunc) ValidateBytes(ctx context.Context, instance []byte) (*sv.Report, error) {
	return f(ctx, instance)
}

// Pool manages a pool of worker goroutines for parallel validation.
type Pool struct {
	workers    int
	jobsChan   chan Job
	resultChan chan *JobResult
	validator  Validator
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	// guards closing jobsChan against concurrent Submit
	mu     sync.RWMutex
	closed bool

	// Metrics
	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	totalDuration atomic.Uint64
}

// NewPool creates a new worker pool with the specified number of workers.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewPool(validator Validator, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		workers:    workers,
		jobsChan:   make(chan Job, workers*2),
		resultChan: make(chan *JobResult, workers*2),
		validator:  validator,
		ctx:        ctx,
		cancel:     cancel,
	}

	// Start workers
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit submits a job to the pool for processing and returns its ID.
// This method blocks if the job queue is full.
func (p *Pool) Submit(job Job) (string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrPoolClosed
	}

	select {
	case <-p.ctx.Done():
		return "", ErrPoolClosed
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return job.ID, nil
	}
}

// TrySubmit submits a job without blocking.
// It returns ErrQueueFull when the job queue is full.
func (p *Pool) TrySubmit(job Job) (string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrPoolClosed
	}

	select {
	case <-p.ctx.Done():
		return "", ErrPoolClosed
	case p.jobsChan <- job:
		p.jobsSubmitted.Add(1)
		return job.ID, nil
	default:
		return "", ErrQueueFull
	}
}

// Results returns the channel for receiving job results.
func (p *Pool) Results() <-chan *JobResult {
	return p.resultChan
}

// shutdown marks the pool closed and closes the job queue.
// It reports false if the pool was already closed.
func (p *Pool) shutdown(cancel bool) bool {
	if cancel {
		p.cancel()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.closed = true
	close(p.jobsChan)
	return true
}

// Close cancels pending jobs, discards undelivered results and waits for
// all workers to finish.
func (p *Pool) Close() {
	if !p.shutdown(true) {
		return
	}

	// Drain results in background to prevent worker deadlock
	done := make(chan struct{})
	go func() {
		for range p.resultChan {
			// Discard results
		}
		close(done)
	}()

	p.wg.Wait()
	close(p.resultChan)
	<-done
}

// CloseAndWait stops accepting jobs, lets queued jobs finish and returns
// every result not yet received from Results.
func (p *Pool) CloseAndWait() *BatchResult {
	if !p.shutdown(false) {
		return &BatchResult{}
	}

	go func() {
		p.wg.Wait()
		close(p.resultChan)
		p.cancel()
	}()

	results := make([]*JobResult, 0)
	failed := 0
	for result := range p.resultChan {
		if result.Error != nil {
			failed++
		}
		results = append(results, result)
	}

	return &BatchResult{
		Results:       results,
		TotalJobs:     int(p.jobsSubmitted.Load()),
		CompletedJobs: int(p.jobsCompleted.Load()),
		FailedJobs:    failed,
		TotalDuration: time.Duration(p.totalDuration.Load()),
	}
}

// Stats returns current pool statistics.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: p.jobsCompleted.Load(),
		AvgDuration:   p.averageDuration(),
	}
}

// PoolStats contains pool statistics.
type PoolStats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	AvgDuration   time.Duration
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobsChan {
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		result := p.processJob(job)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(uint64(result.Duration)) //nolint:gosec // durations are non-negative

		select {
		case <-p.ctx.Done():
			return
		case p.resultChan <- result:
		}
	}
}

func (p *Pool) processJob(job Job) *JobResult {
	start := time.Now()

	result := &JobResult{ID: job.ID, Index: -1}
	if p.validator == nil {
		result.Error = ErrNoValidator
	} else {
		result.Report, result.Error = p.validator.ValidateBytes(p.ctx, job.Instance)
	}

	result.Duration = time.Since(start)
	return result
}

func (p *Pool) averageDuration() time.Duration {
	completed := p.jobsCompleted.Load()
	if completed == 0 {
		return 0
	}
	return time.Duration(p.totalDuration.Load() / completed)
}

// Pool errors.
var (
	ErrNoValidator = poolError("no validator configured")
	ErrPoolClosed  = poolError("worker pool is closed")
	ErrQueueFull   = poolError("worker pool queue is full")
)

type poolError string

func (e poolError) Error() string {
	return string(e)
}
