package worker

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	sv "github.com/gofhir/schemavalidator"
)

// BatchValidator validates batches of instances with bounded parallelism.
type BatchValidator struct {
	validator Validator
	workers   int
}

// NewBatchValidator creates a new batch validator.
// If workers <= 0, it defaults to runtime.NumCPU().
func NewBatchValidator(validator Validator, workers int) *BatchValidator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchValidator{
		validator: validator,
		workers:   workers,
	}
}

// ValidateBatch validates instances in parallel. Results are in input order.
// Once ctx is done no further instance is started; the results of those
// instances carry the context error.
func (bv *BatchValidator) ValidateBatch(ctx context.Context, instances [][]byte) *BatchResult {
	results := make([]*JobResult, len(instances))
	if len(instances) == 0 {
		return &BatchResult{Results: results}
	}

	var g errgroup.Group
	g.SetLimit(bv.workers)
	var completed atomic.Int64

	for i, instance := range instances {
		i, instance := i, instance
		id := uuid.NewString()
		if err := ctx.Err(); err != nil {
			results[i] = &JobResult{ID: id, Index: i, Error: err}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = &JobResult{ID: id, Index: i, Error: err}
				return nil
			}
			start := time.Now()
			report, err := bv.validate(ctx, instance)
			results[i] = &JobResult{
				ID:       id,
				Index:    i,
				Report:   report,
				Error:    err,
				Duration: time.Since(start),
			}
			completed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	br := &BatchResult{
		Results:       results,
		TotalJobs:     len(instances),
		CompletedJobs: int(completed.Load()),
	}
	for _, r := range results {
		br.TotalDuration += r.Duration
		if r.Error != nil {
			br.FailedJobs++
		}
	}
	return br
}

func (bv *BatchValidator) validate(ctx context.Context, instance []byte) (*sv.Report, error) {
	if bv.validator == nil {
		return nil, ErrNoValidator
	}
	return bv.validator.ValidateBytes(ctx, instance)
}

// ValidateBatchSimple is a convenience function for batch validation.
func ValidateBatchSimple(ctx context.Context, validator Validator, instances [][]byte) *BatchResult {
	return NewBatchValidator(validator, runtime.NumCPU()).ValidateBatch(ctx, instances)
}
