package pipeline

import (
	sv "github.com/gofhir/schemavalidator"
)

// Status summarizes a processing result.
type Status int

const (
	// StatusSuccess means no error or fatal message was logged.
	StatusSuccess Status = iota
	// StatusFailure means processing completed with errors.
	StatusFailure
	// StatusAborted means processing raised an error that was captured.
	StatusAborted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result couples a report with the way processing ended.
type Result struct {
	report *sv.Report
	err    error
}

// Of runs p and returns its report. Processing errors propagate to the
// caller; the report is then incomplete and not returned.
func Of(p Processor, report *sv.Report, data *Data) (*Result, error) {
	if err := p.Process(report, data); err != nil {
		return nil, err
	}
	return &Result{report: report}, nil
}

// Unchecked runs p and never fails. If processing raises an error, the
// returned report is a new report that first holds a fatal message for the
// error, then every message recorded before it.
func Unchecked(p Processor, report *sv.Report, data *Data) *Result {
	err := p.Process(report, data)
	if err == nil {
		return &Result{report: report}
	}
	return &Result{report: captureAbort(err, report), err: err}
}

// captureAbort builds the report of an aborted unchecked run. It never
// aborts itself.
func captureAbort(cause error, prior *sv.Report) *sv.Report {
	r := sv.NewReport(
		sv.WithReportLogLevel(sv.LevelDebug),
		sv.WithReportThreshold(sv.LevelNone),
	)
	_ = r.Fatal(sv.AsMessage(cause).Put("info", sv.UncheckedInfo))
	_ = r.MergeWith(prior)
	return r
}

// Report returns the processing report.
func (r *Result) Report() *sv.Report {
	return r.report
}

// Err returns the captured abort cause of an unchecked run, or nil.
func (r *Result) Err() error {
	return r.err
}

// IsSuccess reports whether the report is successful.
func (r *Result) IsSuccess() bool {
	return r.report.IsSuccess()
}

// Status summarizes how processing ended.
func (r *Result) Status() Status {
	switch {
	case r.err != nil:
		return StatusAborted
	case r.report.IsSuccess():
		return StatusSuccess
	default:
		return StatusFailure
	}
}
