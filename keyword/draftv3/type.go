package draftv3

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/nodetype"
	"github.com/gofhir/schemavalidator/pipeline"
)

// TypeDigest is the digest of "type" and "disallow": the primitive types
// named by the keyword, and the indices of the subschemas it lists, in
// ascending order.
type TypeDigest struct {
	Name    string
	Types   nodetype.Set
	Schemas []int
}

// Keyword returns the keyword name.
func (d *TypeDigest) Keyword() string {
	return d.Name
}

// typeDigester reads a draft v3 type union: a type name, or an array of
// type names and schemas. "any" names every primitive type.
func typeDigester(name string) keyword.Digester {
	return func(schema map[string]any) (keyword.Digest, error) {
		d := &TypeDigest{Name: name}
		switch v := schema[name].(type) {
		case string:
			types, err := addTypeName(d.Types, name, v)
			if err != nil {
				return nil, err
			}
			d.Types = types
		case []any:
			for i, e := range v {
				switch elem := e.(type) {
				case string:
					types, err := addTypeName(d.Types, name, elem)
					if err != nil {
						return nil, err
					}
					d.Types = types
				case map[string]any:
					d.Schemas = append(d.Schemas, i)
				default:
					return nil, keyword.Invalid(name, "element %d must be a type name or a schema, found %s", i, keyword.Render(e))
				}
			}
		default:
			return nil, keyword.Invalid(name, "must be a string or an array, found %s", keyword.Render(v))
		}
		return d, nil
	}
}

func addTypeName(s nodetype.Set, keywordName, typeName string) (nodetype.Set, error) {
	if typeName == "any" {
		return nodetype.NewSet(nodetype.All...), nil
	}
	t, ok := nodetype.FromName(typeName)
	if !ok {
		return s, keyword.Invalid(keywordName, "unknown type name %q", typeName)
	}
	return s.Add(t), nil
}

type typeValidator struct {
	digest *TypeDigest
}

// Validate succeeds when the instance has one of the primitive types, or
// when it is valid against at least one of the subschemas.
func (v *typeValidator) Validate(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
	found := keyword.InstanceType(data)
	if v.digest.Types.Matches(found) {
		return nil
	}

	candidates, matched, err := keyword.Candidates(p, report, data, v.digest.Name, v.digest.Schemas)
	if err != nil {
		return err
	}
	if matched > 0 {
		return nil
	}

	if !v.digest.Types.IsEmpty() {
		msg := keyword.NewMessage(data, v.digest.Name).
			Msgf(sv.MsgTypeNoMatch, "instance type (%s) does not match any allowed primitive type (allowed: %s)",
				found, keyword.Render(v.digest.Types)).
			Put("expected", v.digest.Types).
			Put("found", found)
		if err := report.Error(msg); err != nil {
			return err
		}
	}
	if len(v.digest.Schemas) > 0 {
		msg := keyword.NewMessage(data, v.digest.Name).
			Msgf(sv.MsgSchemaNoMatch, "instance failed to match at least one required schema among %d", len(v.digest.Schemas)).
			Put("nrSchemas", len(v.digest.Schemas)).
			Put("reports", keyword.Reports(candidates))
		return report.Error(msg)
	}
	return nil
}

// Type registers the draft v3 "type" union.
func Type() keyword.Registration {
	return keyword.Registration{
		Keyword:  "type",
		Digester: typeDigester("type"),
		Constructor: keyword.Typed(func(d *TypeDigest) keyword.Validator {
			return &typeValidator{digest: d}
		}),
	}
}

type disallowValidator struct {
	digest *TypeDigest
}

// Validate fails when the instance has one of the primitive types, or when
// it is valid against any of the subschemas.
func (v *disallowValidator) Validate(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
	found := keyword.InstanceType(data)
	if v.digest.Types.Matches(found) {
		return report.Error(keyword.NewMessage(data, v.digest.Name).
			Msgf(sv.MsgDisallowed, "instance type (%s) is disallowed (disallowed: %s)",
				found, keyword.Render(v.digest.Types)).
			Put("disallowed", v.digest.Types).
			Put("found", found))
	}

	_, matched, err := keyword.Candidates(p, report, data, v.digest.Name, v.digest.Schemas)
	if err != nil {
		return err
	}
	if matched == 0 {
		return nil
	}
	return report.Error(keyword.NewMessage(data, v.digest.Name).
		Msgf(sv.MsgDisallowedSchema, "instance matched %d out of %d disallowed schemas", matched, len(v.digest.Schemas)).
		Put("matched", matched).
		Put("nrSchemas", len(v.digest.Schemas)))
}

// Disallow registers the draft v3 "disallow" keyword, the inverse of "type".
func Disallow() keyword.Registration {
	return keyword.Registration{
		Keyword:  "disallow",
		Digester: typeDigester("disallow"),
		Constructor: keyword.Typed(func(d *TypeDigest) keyword.Validator {
			return &disallowValidator{digest: d}
		}),
	}
}
