package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/loader"
	"github.com/gofhir/schemavalidator/pipeline"
	"github.com/gofhir/schemavalidator/tree"
)

// Schema is a schema bound to a draft, ready to validate instances.
// It is immutable and safe for concurrent use.
type Schema struct {
	// Configuration
	tree    *tree.SchemaTree
	options *sv.Options

	// Validation
	processor *Processor

	// Metrics
	metrics *sv.Metrics
}

// Draft returns the draft the schema is validated with.
func (s *Schema) Draft() sv.Draft {
	return s.processor.Draft()
}

// Tree returns the schema tree positioned at the schema root.
func (s *Schema) Tree() *tree.SchemaTree {
	return s.tree
}

// Validate validates instance using the configured deep check default.
// A processing error aborts validation and is returned instead of a report.
func (s *Schema) Validate(instance any) (*sv.Report, error) {
	return s.ValidateDeep(instance, s.options.DeepCheck)
}

// ValidateDeep validates instance. With deepCheck, children of containers
// that already failed are validated too.
func (s *Schema) ValidateDeep(instance any, deepCheck bool) (*sv.Report, error) {
	start := time.Now()

	result, err := pipeline.Of(s.processor, s.options.NewReport(), s.data(instance, deepCheck))
	if err != nil {
		s.recordAbort()
		return nil, err
	}

	s.record(start, result.Report())
	return result.Report(), nil
}

// ValidateUnchecked validates instance and never fails: a processing error
// is reported as a fatal message at the head of the returned report.
func (s *Schema) ValidateUnchecked(instance any) *sv.Report {
	return s.ValidateUncheckedDeep(instance, s.options.DeepCheck)
}

// ValidateUncheckedDeep is ValidateUnchecked with an explicit deep check flag.
func (s *Schema) ValidateUncheckedDeep(instance any, deepCheck bool) *sv.Report {
	start := time.Now()

	result := pipeline.Unchecked(s.processor, s.options.NewReport(), s.data(instance, deepCheck))
	if result.Err() != nil {
		s.processor.log.Debug("unchecked validation captured: %v", result.Err())
		s.recordAbort()
		return result.Report()
	}

	s.record(start, result.Report())
	return result.Report()
}

// IsValid reports whether instance is valid. It stops at the first error
// and records no messages.
func (s *Schema) IsValid(instance any) (bool, error) {
	report := sv.NewReport(
		sv.WithReportLogLevel(sv.LevelNone),
		sv.WithReportThreshold(sv.LevelError),
	)

	err := s.processor.Process(report, s.data(instance, false))
	var perr *sv.ProcessingError
	switch {
	case err == nil:
		return report.IsSuccess(), nil
	case errors.As(err, &perr) && perr.Message != nil && perr.Message.Level() == sv.LevelError:
		return false, nil
	default:
		return false, err
	}
}

// IsValidUnchecked is IsValid with processing errors counted as invalid.
func (s *Schema) IsValidUnchecked(instance any) bool {
	ok, err := s.IsValid(instance)
	return ok && err == nil
}

// ValidateBytes decodes a JSON or YAML instance and validates it.
func (s *Schema) ValidateBytes(ctx context.Context, data []byte) (*sv.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	instance, err := loader.Decode(data, loader.FormatAuto)
	if err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}
	return s.Validate(instance)
}

func (s *Schema) data(instance any, deepCheck bool) *pipeline.Data {
	return pipeline.NewData(s.tree, tree.NewInstanceTree(instance), deepCheck)
}

func (s *Schema) record(start time.Time, report *sv.Report) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordValidation(time.Since(start), report.IsSuccess())
	s.metrics.RecordReport(report)
}

func (s *Schema) recordAbort() {
	if s.metrics != nil {
		s.metrics.RecordAbort()
	}
}

// --- Introspection ---
//
// These helpers read the top level of the schema node only. They do not
// follow subschemas.

func (s *Schema) node() map[string]any {
	node, _ := s.tree.Current().(map[string]any)
	return node
}

func (s *Schema) property(name string) map[string]any {
	properties, _ := s.node()["properties"].(map[string]any)
	prop, _ := properties[name].(map[string]any)
	return prop
}

// PropertyNames returns the names declared in "properties", sorted.
func (s *Schema) PropertyNames() []string {
	properties, _ := s.node()["properties"].(map[string]any)
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyType returns the "type" of a property when it is a single name.
func (s *Schema) PropertyType(name string) (string, bool) {
	t, ok := s.property(name)["type"].(string)
	return t, ok
}

// PropertyDescription returns the "description" of a property.
func (s *Schema) PropertyDescription(name string) (string, bool) {
	d, ok := s.property(name)["description"].(string)
	return d, ok
}

// PropertyEnum returns the "enum" values of a property as text. Strings are
// returned as is, other values in their JSON form.
func (s *Schema) PropertyEnum(name string) []string {
	values, _ := s.property(name)["enum"].([]any)
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		if str, ok := v.(string); ok {
			out[i] = str
			continue
		}
		out[i] = keyword.Render(v)
	}
	return out
}

// IsRequired reports whether a property is required, either through the
// top-level "required" array or a draft v3 "required": true.
func (s *Schema) IsRequired(name string) bool {
	if required, ok := s.node()["required"].([]any); ok {
		for _, r := range required {
			if r == name {
				return true
			}
		}
	}
	if s.Draft() == sv.DraftV3 {
		required, _ := s.property(name)["required"].(bool)
		return required
	}
	return false
}
