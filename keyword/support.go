package keyword

import (
	"strconv"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/nodetype"
	"github.com/gofhir/schemavalidator/pipeline"
	"github.com/gofhir/schemavalidator/pointer"
)

// NewMessage returns a validation message for keyword located at data.
func NewMessage(data *pipeline.Data, keyword string) *sv.Message {
	return data.NewMessage().Keyword(keyword)
}

// InstanceType classifies the current instance of data.
func InstanceType(data *pipeline.Data) nodetype.NodeType {
	return nodetype.Of(data.Instance().Current())
}

// Candidate is the outcome of applying one subschema to the current instance.
type Candidate struct {
	// Pointer locates the subschema relative to the schema node holding the keyword.
	Pointer pointer.Pointer
	Report  *sv.Report
}

// ApplySubschema validates the current instance against the subschema at
// tokens below the current schema node. The candidate gets its own report,
// inheriting the log level of report and aborting only on fatal messages,
// so its failures never reach report directly.
func ApplySubschema(p pipeline.Processor, report *sv.Report, data *pipeline.Data, tokens ...string) (Candidate, error) {
	schema, err := data.Schema().Append(tokens...)
	if err != nil {
		return Candidate{}, err
	}
	child := report.Child(sv.WithReportThreshold(sv.LevelFatal))
	if err := p.Process(child, data.WithSchema(schema)); err != nil {
		return Candidate{}, err
	}
	return Candidate{Pointer: pointer.New(tokens...), Report: child}, nil
}

// Candidates applies every subschema index of keyword in order and returns
// the outcomes and the number of successful candidates.
func Candidates(p pipeline.Processor, report *sv.Report, data *pipeline.Data, keyword string, indices []int) ([]Candidate, int, error) {
	out := make([]Candidate, 0, len(indices))
	matched := 0
	for _, idx := range indices {
		c, err := ApplySubschema(p, report, data, keyword, strconv.Itoa(idx))
		if err != nil {
			return nil, 0, err
		}
		if c.Report.IsSuccess() {
			matched++
		}
		out = append(out, c)
	}
	return out, matched, nil
}

// Reports renders candidate reports keyed by their pointer, in order.
func Reports(candidates []Candidate) *sv.Fields {
	f := sv.NewFields()
	for _, c := range candidates {
		f.Put(c.Pointer.String(), c.Report.AsStructuredValue())
	}
	return f
}

// SchemaArrayDigest lists the subschemas of an array-of-schemas keyword.
type SchemaArrayDigest struct {
	Name    string
	Indices []int
}

// Keyword returns the keyword name.
func (d *SchemaArrayDigest) Keyword() string {
	return d.Name
}

// Len returns the number of subschemas.
func (d *SchemaArrayDigest) Len() int {
	return len(d.Indices)
}

// SchemaArray returns a digester for a keyword holding a non-empty array of schemas.
func SchemaArray(keyword string) Digester {
	return func(schema map[string]any) (Digest, error) {
		arr, ok := schema[keyword].([]any)
		if !ok || len(arr) == 0 {
			return nil, Invalid(keyword, "must be a non-empty array of schemas")
		}
		d := &SchemaArrayDigest{Name: keyword, Indices: make([]int, len(arr))}
		for i, e := range arr {
			if _, ok := e.(map[string]any); !ok {
				return nil, Invalid(keyword, "element %d must be a schema, found %s", i, Render(e))
			}
			d.Indices[i] = i
		}
		return d, nil
	}
}
