package stream

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	sv "github.com/gofhir/schemavalidator"
)

// mockValidate fails objects lacking "name" and errors on the string "boom".
var mockValidate = ValidatorFunc(func(instance any) (*sv.Report, error) {
	if s, ok := instance.(string); ok && s == "boom" {
		return nil, errors.New("boom")
	}
	report := sv.NewReport()
	obj, ok := instance.(map[string]any)
	if !ok {
		return report, nil
	}
	if _, ok := obj["name"]; !ok {
		_ = report.Error(sv.NewMessage().Msg("err.test.name", "missing name"))
	}
	return report, nil
})

func collect(results <-chan *ElementResult) []*ElementResult {
	var out []*ElementResult
	for r := range results {
		out = append(out, r)
	}
	return out
}

func TestArrayValidator_ValidateStream(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	input := `[
		{"name": "a"},
		{"id": 2},
		{"name": "c", "n": 1.50}
	]`

	results := collect(validator.ValidateStream(context.Background(), strings.NewReader(input)))
	if len(results) != 3 {
		t.Fatalf("Processed %d elements; want 3", len(results))
	}

	for i, r := range results {
		if r.Error != nil {
			t.Errorf("Element %d error: %v", i, r.Error)
		}
		if r.Index != i {
			t.Errorf("Index = %d; want %d", r.Index, i)
		}
	}
	if results[1].Pointer != "/1" {
		t.Errorf("Pointer = %q; want /1", results[1].Pointer)
	}
	if !results[0].Valid() || results[1].Valid() || !results[2].Valid() {
		t.Errorf("validity = %v %v %v; want true false true", results[0].Valid(), results[1].Valid(), results[2].Valid())
	}
}

func TestArrayValidator_NumbersKeepPrecision(t *testing.T) {
	var got any
	validator := NewArrayValidator(ValidatorFunc(func(instance any) (*sv.Report, error) {
		got = instance
		return sv.NewReport(), nil
	}))

	collect(validator.ValidateStream(context.Background(), strings.NewReader(`[12345678901234567890.5]`)))

	n, ok := got.(interface{ String() string })
	if !ok || n.String() != "12345678901234567890.5" {
		t.Errorf("decoded %T %v; want json.Number 12345678901234567890.5", got, got)
	}
}

func TestArrayValidator_ValueSequence(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	input := "{\"name\": \"a\"}\n{\"id\": 1}\n\"text\"\n"
	results := collect(validator.ValidateStream(context.Background(), strings.NewReader(input)))

	if len(results) != 3 {
		t.Fatalf("Got %d results; want 3", len(results))
	}
	if results[0].Pointer != "" {
		t.Errorf("Pointer = %q; want empty for sequences", results[0].Pointer)
	}
	if results[1].Valid() {
		t.Error("Element 1 should be invalid")
	}
}

func TestArrayValidator_ValidateStreamParallel(t *testing.T) {
	validator := NewArrayValidator(mockValidate).WithWorkerCount(3)

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 50; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		if i%5 == 0 {
			b.WriteString(`{"id": 1}`)
		} else {
			b.WriteString(`{"name": "x"}`)
		}
	}
	b.WriteString("]")

	results := collect(validator.ValidateStreamParallel(context.Background(), strings.NewReader(b.String())))
	if len(results) != 50 {
		t.Fatalf("Got %d results; want 50", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("Result %d has index %d; want %d", i, r.Index, i)
		}
		if want := i%5 != 0; r.Valid() != want {
			t.Errorf("Result %d valid = %v; want %v", i, r.Valid(), want)
		}
	}
}

func TestArrayValidator_EmptyInput(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	for _, input := range []string{"", "  \n", "[]"} {
		results := collect(validator.ValidateStream(context.Background(), strings.NewReader(input)))
		if len(results) != 0 {
			t.Errorf("input %q: got %d results; want 0", input, len(results))
		}
	}
}

func TestArrayValidator_InvalidJSON(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	results := collect(validator.ValidateStream(context.Background(), strings.NewReader(`[{"name": "a"}, {"name": ]`)))
	if len(results) != 2 {
		t.Fatalf("Got %d results; want 2", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("first element error: %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Index != -1 {
		t.Errorf("want an input-level error, got index %d error %v", results[1].Index, results[1].Error)
	}
}

func TestArrayValidator_ValidatorError(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	results := collect(validator.ValidateStream(context.Background(), strings.NewReader(`["boom", "ok"]`)))
	if len(results) != 2 {
		t.Fatalf("Got %d results; want 2", len(results))
	}
	if results[0].Error == nil || results[0].Index != 0 {
		t.Errorf("element 0: index %d error %v; want index 0 with error", results[0].Index, results[0].Error)
	}
	if !results[1].Valid() {
		t.Error("element 1 should be valid")
	}
}

func TestArrayValidator_ContextCancellation(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collect(validator.ValidateStream(ctx, strings.NewReader(`[{"name": "a"}, {"name": "b"}]`)))
	if len(results) != 1 {
		t.Fatalf("Got %d results; want 1", len(results))
	}
	if !errors.Is(results[0].Error, context.Canceled) {
		t.Errorf("Error = %v; want context.Canceled", results[0].Error)
	}
}

func TestArrayValidator_AbandonedConsumer(t *testing.T) {
	var input strings.Builder
	input.WriteString("[")
	for i := 0; i < 1000; i++ {
		if i > 0 {
			input.WriteString(",")
		}
		input.WriteString(`{"name": "a"}`)
	}
	input.WriteString("]")

	modes := map[string]func(*ArrayValidator, context.Context, string) <-chan *ElementResult{
		"sequential": func(v *ArrayValidator, ctx context.Context, in string) <-chan *ElementResult {
			return v.ValidateStream(ctx, strings.NewReader(in))
		},
		"parallel": func(v *ArrayValidator, ctx context.Context, in string) <-chan *ElementResult {
			return v.ValidateStreamParallel(ctx, strings.NewReader(in))
		},
	}

	for name, start := range modes {
		t.Run(name, func(t *testing.T) {
			before := runtime.NumGoroutine()

			validator := NewArrayValidator(mockValidate).WithBufferSize(1).WithWorkerCount(2)
			ctx, cancel := context.WithCancel(context.Background())
			results := start(validator, ctx, input.String())

			<-results
			cancel()

			deadline := time.Now().Add(2 * time.Second)
			for runtime.NumGoroutine() > before {
				if time.Now().After(deadline) {
					t.Fatalf("NumGoroutine() = %d; want <= %d after cancel", runtime.NumGoroutine(), before)
				}
				time.Sleep(10 * time.Millisecond)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	agg := Aggregate(validator.ValidateStream(context.Background(),
		strings.NewReader(`[{"name": "a"}, {}, {"id": 1}, "boom"]`)))

	if agg.TotalElements != 3 {
		t.Errorf("TotalElements = %d; want 3", agg.TotalElements)
	}
	if agg.InvalidElements != 2 {
		t.Errorf("InvalidElements = %d; want 2", agg.InvalidElements)
	}
	if agg.TotalMessages != 2 {
		t.Errorf("TotalMessages = %d; want 2", agg.TotalMessages)
	}
	if len(agg.ProcessingErrors) != 1 {
		t.Errorf("ProcessingErrors = %d; want 1", len(agg.ProcessingErrors))
	}
	if len(agg.Messages[1]) != 1 || len(agg.Messages[2]) != 1 {
		t.Errorf("Messages = %v; want one message for elements 1 and 2", agg.Messages)
	}
	if !agg.HasErrors() {
		t.Error("HasErrors() should be true")
	}
}

func TestStreamResult_NoErrors(t *testing.T) {
	validator := NewArrayValidator(mockValidate)

	agg := Aggregate(validator.ValidateStream(context.Background(), strings.NewReader(`[{"name": "a"}]`)))
	if agg.HasErrors() {
		t.Error("HasErrors() should be false")
	}
}

func TestArrayValidator_Options(t *testing.T) {
	validator := NewArrayValidator(mockValidate).WithBufferSize(10).WithWorkerCount(8)

	if validator.bufferSize != 10 {
		t.Errorf("bufferSize = %d; want 10", validator.bufferSize)
	}
	if validator.workerCount != 8 {
		t.Errorf("workerCount = %d; want 8", validator.workerCount)
	}

	validator.WithBufferSize(0).WithWorkerCount(-1)
	if validator.bufferSize != 10 || validator.workerCount != 8 {
		t.Error("non-positive values should be ignored")
	}
}
