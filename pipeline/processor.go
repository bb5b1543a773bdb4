// Package pipeline provides the processing infrastructure shared by the
// validation engine and keyword validators: processors, the immutable
// validation data they operate on, and checked/unchecked result capture.
package pipeline

import (
	sv "github.com/gofhir/schemavalidator"
)

// Processor applies one processing step to data, logging into report.
//
// Processors should be:
//   - Stateless: all per-call state lives in the report and the data
//   - Thread-safe: several goroutines may call Process concurrently, each with its own report
//   - Fast-failing: a non-nil error from the report must be returned unchanged
type Processor interface {
	Process(report *sv.Report, data *Data) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(report *sv.Report, data *Data) error

// Process calls f.
func (f ProcessorFunc) Process(report *sv.Report, data *Data) error {
	return f(report, data)
}

// Chain runs processors in order over the same report and data.
type Chain struct {
	processors []Processor
}

// NewChain creates a chain. Nil processors are skipped.
func NewChain(processors ...Processor) *Chain {
	c := &Chain{processors: make([]Processor, 0, len(processors))}
	for _, p := range processors {
		if p != nil {
			c.processors = append(c.processors, p)
		}
	}
	return c
}

// Len returns the number of processors in the chain.
func (c *Chain) Len() int {
	return len(c.processors)
}

// Process runs every processor in turn and stops at the first error.
func (c *Chain) Process(report *sv.Report, data *Data) error {
	for _, p := range c.processors {
		if err := p.Process(report, data); err != nil {
			return err
		}
	}
	return nil
}

// conditional wraps a processor with a predicate evaluated before each run.
type conditional struct {
	processor Processor
	condition func(report *sv.Report, data *Data) bool
}

// When returns a processor that runs p only when condition holds for the
// report and data at that point of the chain.
func When(condition func(report *sv.Report, data *Data) bool, p Processor) Processor {
	return &conditional{processor: p, condition: condition}
}

func (c *conditional) Process(report *sv.Report, data *Data) error {
	if c.condition != nil && !c.condition(report, data) {
		return nil
	}
	return c.processor.Process(report, data)
}
