package pipeline

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/tree"
)

// Data is the input of one processing step: the schema location being
// applied, the instance location being validated, and whether children of
// failed containers are still checked.
//
// Data is immutable. The With methods return new values.
type Data struct {
	schema    *tree.SchemaTree
	instance  *tree.InstanceTree
	deepCheck bool
}

// NewData creates validation data.
func NewData(schema *tree.SchemaTree, instance *tree.InstanceTree, deepCheck bool) *Data {
	return &Data{schema: schema, instance: instance, deepCheck: deepCheck}
}

// Schema returns the schema tree.
func (d *Data) Schema() *tree.SchemaTree {
	return d.schema
}

// Instance returns the instance tree.
func (d *Data) Instance() *tree.InstanceTree {
	return d.instance
}

// DeepCheck reports whether children of failed containers are validated.
func (d *Data) DeepCheck() bool {
	return d.deepCheck
}

// WithSchema returns a copy of d using schema.
func (d *Data) WithSchema(schema *tree.SchemaTree) *Data {
	return &Data{schema: schema, instance: d.instance, deepCheck: d.deepCheck}
}

// WithInstance returns a copy of d using instance.
func (d *Data) WithInstance(instance *tree.InstanceTree) *Data {
	return &Data{schema: d.schema, instance: instance, deepCheck: d.deepCheck}
}

// NewMessage returns a validation message located at the current schema and
// instance pointers.
func (d *Data) NewMessage() *sv.Message {
	return sv.NewMessage().
		Schema(d.schema.Fields()).
		Instance(d.instance.Fields()).
		Domain(sv.DomainValidation)
}
