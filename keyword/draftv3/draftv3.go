// Package draftv3 implements the keywords specific to draft v3 of JSON Schema.
package draftv3

import (
	"sort"
	"strconv"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/keyword/common"
	"github.com/gofhir/schemavalidator/pipeline"
)

// Registrations returns the draft v3 specific keywords.
func Registrations() []keyword.Registration {
	return []keyword.Registration{
		Type(),
		Disallow(),
		Properties(),
		common.Divisor("divisibleBy"),
		Extends(),
	}
}

// Register adds every draft v3 keyword, shared ones included, to r.
func Register(r *keyword.Registry) error {
	if err := common.Register(r, sv.DraftV3); err != nil {
		return err
	}
	for _, reg := range Registrations() {
		if err := r.Register(sv.DraftV3, reg); err != nil {
			return err
		}
	}
	return nil
}

// RequiredDigest lists the properties whose schema sets "required": true.
type RequiredDigest struct {
	Required []string
}

// Keyword returns "properties".
func (d *RequiredDigest) Keyword() string {
	return "properties"
}

// Properties checks the draft v3 "required" attribute of property schemas.
// Property schemas themselves are applied by the engine.
func Properties() keyword.Registration {
	return keyword.Registration{
		Keyword: "properties",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			props, err := keyword.ObjectValue(schema, "properties")
			if err != nil {
				return nil, err
			}
			d := &RequiredDigest{}
			for name, sub := range props {
				subschema, ok := sub.(map[string]any)
				if !ok {
					return nil, keyword.Invalid("properties", "member %q must be a schema, found %s", name, keyword.Render(sub))
				}
				required, err := keyword.BoolValue(subschema, "required", false)
				if err != nil {
					return nil, err
				}
				if required {
					d.Required = append(d.Required, name)
				}
			}
			sort.Strings(d.Required)
			return d, nil
		},
		Constructor: keyword.Typed(func(d *RequiredDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				return common.RequireMembers(report, data, "properties", d.Required)
			})
		}),
	}
}

// ExtendsDigest is the digest of "extends". Path lists, for each extended
// schema, the tokens locating it below the keyword.
type ExtendsDigest struct {
	Paths [][]string
}

// Keyword returns "extends".
func (d *ExtendsDigest) Keyword() string {
	return "extends"
}

// Extends applies one schema, or every schema of an array, to the instance.
// Their messages go to the current report.
func Extends() keyword.Registration {
	return keyword.Registration{
		Keyword: "extends",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			d := &ExtendsDigest{}
			switch v := schema["extends"].(type) {
			case map[string]any:
				d.Paths = append(d.Paths, []string{"extends"})
			case []any:
				for i, e := range v {
					if _, ok := e.(map[string]any); !ok {
						return nil, keyword.Invalid("extends", "element %d must be a schema, found %s", i, keyword.Render(e))
					}
					d.Paths = append(d.Paths, []string{"extends", strconv.Itoa(i)})
				}
			default:
				return nil, keyword.Invalid("extends", "must be a schema or an array of schemas, found %s", keyword.Render(v))
			}
			return d, nil
		},
		Constructor: keyword.Typed(func(d *ExtendsDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				for _, path := range d.Paths {
					schema, err := data.Schema().Append(path...)
					if err != nil {
						return err
					}
					if err := p.Process(report, data.WithSchema(schema)); err != nil {
						return err
					}
				}
				return nil
			})
		}),
	}
}
