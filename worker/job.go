package worker

import (
	"time"

	"github.com/google/uuid"

	sv "github.com/gofhir/schemavalidator"
)

// Job represents a validation job to be processed by a worker.
type Job struct {
	// ID is a unique identifier for this job. The pool assigns a random
	// UUID when it is empty.
	ID string

	// Instance is the document to validate, as JSON or YAML bytes.
	Instance []byte
}

// NewJob creates a job for instance with a random UUID.
func NewJob(instance []byte) Job {
	return Job{ID: uuid.NewString(), Instance: instance}
}

// JobResult represents the result of a validation job.
type JobResult struct {
	// ID matches the Job.ID that produced this result.
	ID string

	// Index is the position of the instance in a batch, or -1 for pool jobs.
	Index int

	// Report is the validation report; nil when Error is set.
	Report *sv.Report

	// Error is the processing error that aborted validation, if any.
	Error error

	// Duration is the time taken to validate.
	Duration time.Duration
}

// Valid reports whether the job completed with a successful report.
func (r *JobResult) Valid() bool {
	return r.Error == nil && r.Report != nil && r.Report.IsSuccess()
}

// BatchResult aggregates results from multiple jobs.
type BatchResult struct {
	// Results contains all job results.
	Results []*JobResult

	// TotalJobs is the number of jobs submitted.
	TotalJobs int

	// CompletedJobs is the number of jobs completed (including errors).
	CompletedJobs int

	// FailedJobs is the number of jobs that failed with an error.
	FailedJobs int

	// TotalDuration is the summed validation time of all jobs.
	TotalDuration time.Duration
}

// HasErrors returns true if any job failed or reported an invalid instance.
func (br *BatchResult) HasErrors() bool {
	for _, r := range br.Results {
		if r.Error != nil {
			return true
		}
		if r.Report != nil && !r.Report.IsSuccess() {
			return true
		}
	}
	return false
}

// ErrorCount returns the total number of recorded error messages across all reports.
func (br *BatchResult) ErrorCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Report != nil {
			count += r.Report.ErrorCount()
		}
	}
	return count
}

// ValidCount returns the number of valid instances.
func (br *BatchResult) ValidCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Valid() {
			count++
		}
	}
	return count
}

// InvalidCount returns the number of instances that were validated and found invalid.
func (br *BatchResult) InvalidCount() int {
	count := 0
	for _, r := range br.Results {
		if r.Error == nil && r.Report != nil && !r.Report.IsSuccess() {
			count++
		}
	}
	return count
}
