// Package draftv4 implements the keywords specific to draft v4 of JSON Schema.
package draftv4

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/keyword/common"
	"github.com/gofhir/schemavalidator/nodetype"
	"github.com/gofhir/schemavalidator/pipeline"
)

// Registrations returns the draft v4 specific keywords.
func Registrations() []keyword.Registration {
	return []keyword.Registration{
		Type(),
		Required(),
		common.Divisor("multipleOf"),
		MinProperties(),
		MaxProperties(),
		AllOf(),
		AnyOf(),
		OneOf(),
		Not(),
	}
}

// Register adds every draft v4 keyword, shared ones included, to r.
func Register(r *keyword.Registry) error {
	if err := common.Register(r, sv.DraftV4); err != nil {
		return err
	}
	for _, reg := range Registrations() {
		if err := r.Register(sv.DraftV4, reg); err != nil {
			return err
		}
	}
	return nil
}

// TypeDigest is the digest of the draft v4 "type" keyword.
type TypeDigest struct {
	Types nodetype.Set
}

// Keyword returns "type".
func (d *TypeDigest) Keyword() string {
	return "type"
}

// Type validates the instance type against a type name or an array of names.
// An empty array allows no type, so it fails every instance; under draft v3
// an empty union is a no-op instead.
func Type() keyword.Registration {
	return keyword.Registration{
		Keyword: "type",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			var names []string
			switch v := schema["type"].(type) {
			case string:
				names = []string{v}
			case []any:
				var err error
				if names, err = keyword.StringsValue(schema, "type"); err != nil {
					return nil, err
				}
			default:
				return nil, keyword.Invalid("type", "must be a string or an array of strings, found %s", keyword.Render(v))
			}
			d := &TypeDigest{}
			for _, name := range names {
				t, ok := nodetype.FromName(name)
				if !ok {
					return nil, keyword.Invalid("type", "unknown type name %q", name)
				}
				d.Types = d.Types.Add(t)
			}
			return d, nil
		},
		Constructor: keyword.Typed(func(d *TypeDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				found := keyword.InstanceType(data)
				if d.Types.Matches(found) {
					return nil
				}
				return report.Error(keyword.NewMessage(data, "type").
					Msgf(sv.MsgTypeNoMatch, "instance type (%s) does not match any allowed primitive type (allowed: %s)",
						found, keyword.Render(d.Types)).
					Put("expected", d.Types).
					Put("found", found))
			})
		}),
	}
}

// RequiredDigest is the digest of the draft v4 "required" keyword.
type RequiredDigest struct {
	Names []string
}

// Keyword returns "required".
func (d *RequiredDigest) Keyword() string {
	return "required"
}

// Required validates that object instances have every listed member.
func Required() keyword.Registration {
	return keyword.Registration{
		Keyword: "required",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			names, err := keyword.StringsValue(schema, "required")
			if err != nil {
				return nil, err
			}
			return &RequiredDigest{Names: names}, nil
		},
		Constructor: keyword.Typed(func(d *RequiredDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				return common.RequireMembers(report, data, "required", d.Names)
			})
		}),
	}
}

// MinProperties validates the minimum number of object members.
func MinProperties() keyword.Registration {
	return keyword.Registration{
		Keyword:  "minProperties",
		Digester: common.CountDigester("minProperties"),
		Constructor: keyword.Typed(func(d *common.CountDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				obj, ok := data.Instance().Current().(map[string]any)
				if !ok || len(obj) >= d.Limit {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgMinPropertiesTooFew, "object has too few properties (found %d but schema requires at least %d)", len(obj), d.Limit).
					Put("required", d.Limit).
					Put("found", len(obj)))
			})
		}),
	}
}

// MaxProperties validates the maximum number of object members.
func MaxProperties() keyword.Registration {
	return keyword.Registration{
		Keyword:  "maxProperties",
		Digester: common.CountDigester("maxProperties"),
		Constructor: keyword.Typed(func(d *common.CountDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				obj, ok := data.Instance().Current().(map[string]any)
				if !ok || len(obj) <= d.Limit {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgMaxPropertiesTooMany, "object has too many properties (found %d but schema requires at most %d)", len(obj), d.Limit).
					Put("required", d.Limit).
					Put("found", len(obj)))
			})
		}),
	}
}
