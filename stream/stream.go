// Package stream validates sequences of JSON instances without decoding the
// whole input up front.
//
// The input is either a top-level JSON array, whose elements are validated
// one by one, or a sequence of JSON values separated by whitespace (such as
// NDJSON). Results are emitted in input order.
package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/goccy/go-json"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/pointer"
)

// Validator validates one decoded instance. *engine.Schema implements it.
type Validator interface {
	Validate(instance any) (*sv.Report, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(instance any) (*sv.Report, error)

// Validate calls f.
func (f ValidatorFunc) Validate(instance any) (*sv.Report, error) {
	return f(instance)
}

// ElementResult is the validation result for a single element.
type ElementResult struct {
	// Index is the position of the element in the input, or -1 for errors
	// concerning the input as a whole.
	Index int

	// Pointer locates the element in a top-level array. It is empty for
	// value sequences.
	Pointer string

	// Report holds the validation messages for this element
	Report *sv.Report

	// Error is set if the element could not be decoded or validated
	Error error
}

// Valid returns true if the element was validated without errors.
func (r *ElementResult) Valid() bool {
	return r.Error == nil && r.Report != nil && r.Report.IsSuccess()
}

// ArrayValidator validates streams of instances.
type ArrayValidator struct {
	validator   Validator
	bufferSize  int
	workerCount int
}

// NewArrayValidator creates a new streaming validator over v.
func NewArrayValidator(v Validator) *ArrayValidator {
	return &ArrayValidator{
		validator:   v,
		bufferSize:  100,
		workerCount: 4,
	}
}

// WithBufferSize sets the channel buffer size.
func (v *ArrayValidator) WithBufferSize(size int) *ArrayValidator {
	if size > 0 {
		v.bufferSize = size
	}
	return v
}

// WithWorkerCount sets the number of parallel workers.
func (v *ArrayValidator) WithWorkerCount(count int) *ArrayValidator {
	if count > 0 {
		v.workerCount = count
	}
	return v
}

// element is one decoded input value.
type element struct {
	index    int
	pointer  string
	instance any
	err      error
}

// send delivers v on ch. Once ctx is done it gives up instead of blocking
// on a consumer that stopped reading, and reports false.
func send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
	}
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// decode reads elements from r and sends them to out. It stops at the first
// error concerning the input as a whole, after sending it with index -1.
func decode(ctx context.Context, r io.Reader, out chan<- element) {
	br := bufio.NewReader(r)
	first, err := peekValue(br)
	if err == io.EOF {
		return
	}
	if err != nil {
		send(ctx, out, element{index: -1, err: fmt.Errorf("failed to read input: %w", err)})
		return
	}

	decoder := json.NewDecoder(br)
	decoder.UseNumber()

	inArray := first == '['
	if inArray {
		if _, err := decoder.Token(); err != nil {
			send(ctx, out, element{index: -1, err: fmt.Errorf("failed to read array: %w", err)})
			return
		}
	}

	for index := 0; decoder.More(); index++ {
		select {
		case <-ctx.Done():
			send(ctx, out, element{index: -1, err: ctx.Err()})
			return
		default:
		}

		e := element{index: index}
		if inArray {
			e.pointer = pointer.Empty().AppendIndex(index).String()
		}
		if err := decoder.Decode(&e.instance); err != nil {
			// the decoder cannot resynchronise after a syntax error
			send(ctx, out, element{index: -1, err: fmt.Errorf("failed to decode element %d: %w", index, err)})
			return
		}
		if !send(ctx, out, e) {
			return
		}
	}

	if inArray {
		if _, err := decoder.Token(); err != nil {
			send(ctx, out, element{index: -1, err: fmt.Errorf("unterminated array: %w", err)})
		}
	}
}

// peekValue returns the first non-whitespace byte of br without consuming it.
func peekValue(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		default:
			return b[0], nil
		}
	}
}

func (v *ArrayValidator) validate(e element) *ElementResult {
	result := &ElementResult{Index: e.index, Pointer: e.pointer, Error: e.err}
	if e.err != nil {
		return result
	}
	result.Report, result.Error = v.validator.Validate(e.instance)
	return result
}

// ValidateStream validates elements one at a time, emitting results as they
// are produced. The channel is closed when the input is exhausted, on the
// first input-level error, or when ctx is done.
func (v *ArrayValidator) ValidateStream(ctx context.Context, r io.Reader) <-chan *ElementResult {
	results := make(chan *ElementResult, v.bufferSize)
	elements := make(chan element, v.bufferSize)

	go func() {
		defer close(elements)
		decode(ctx, r, elements)
	}()

	go func() {
		defer close(results)
		for e := range elements {
			if !send(ctx, results, v.validate(e)) {
				return
			}
		}
	}()

	return results
}

// ValidateStreamParallel validates elements on several workers while still
// emitting results in input order.
func (v *ArrayValidator) ValidateStreamParallel(ctx context.Context, r io.Reader) <-chan *ElementResult {
	results := make(chan *ElementResult, v.bufferSize)

	type workItem struct {
		seq int
		e   element
	}
	type done struct {
		seq    int
		result *ElementResult
	}

	elements := make(chan element, v.bufferSize)
	workChan := make(chan workItem, v.bufferSize)
	resultChan := make(chan done, v.bufferSize)

	go func() {
		defer close(elements)
		decode(ctx, r, elements)
	}()

	// Sequence every decoded element, input-level errors included, so the
	// collector can restore order.
	go func() {
		defer close(workChan)
		seq := 0
		for e := range elements {
			if !send(ctx, workChan, workItem{seq: seq, e: e}) {
				return
			}
			seq++
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < v.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workChan {
				if !send(ctx, resultChan, done{seq: work.seq, result: v.validate(work.e)}) {
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	go func() {
		defer close(results)

		pending := make(map[int]*ElementResult)
		next := 0
		for d := range resultChan {
			pending[d.seq] = d.result
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				if !send(ctx, results, r) {
					return
				}
				delete(pending, next)
				next++
			}
		}
	}()

	return results
}

// StreamResult aggregates results from streaming validation.
type StreamResult struct {
	// TotalElements is the number of elements validated
	TotalElements int

	// InvalidElements is the count of elements whose report failed
	InvalidElements int

	// TotalMessages is the total number of recorded messages
	TotalMessages int

	// ProcessingErrors are errors that stopped an element or the input
	ProcessingErrors []error

	// Messages holds the messages of invalid elements, by index
	Messages map[int][]*sv.Message
}

// Aggregate collects all results from a streaming validation.
func Aggregate(results <-chan *ElementResult) *StreamResult {
	agg := &StreamResult{
		Messages: make(map[int][]*sv.Message),
	}

	for result := range results {
		if result.Error != nil {
			agg.ProcessingErrors = append(agg.ProcessingErrors, result.Error)
			continue
		}

		agg.TotalElements++
		if result.Report == nil {
			continue
		}

		agg.TotalMessages += result.Report.Len()
		if !result.Report.IsSuccess() {
			agg.InvalidElements++
			agg.Messages[result.Index] = result.Report.Messages()
		}
	}

	return agg
}

// HasErrors returns true if any element was invalid or could not be processed.
func (r *StreamResult) HasErrors() bool {
	return r.InvalidElements > 0 || len(r.ProcessingErrors) > 0
}
