package draftv4

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
)

// AllOf requires the instance to be valid against every subschema.
func AllOf() keyword.Registration {
	return keyword.Registration{
		Keyword:  "allOf",
		Digester: keyword.SchemaArray("allOf"),
		Constructor: keyword.Typed(func(d *keyword.SchemaArrayDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				candidates, matched, err := keyword.Candidates(p, report, data, d.Name, d.Indices)
				if err != nil {
					return err
				}
				if matched == d.Len() {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgAllOfFail, "instance failed to match all required schemas (matched only %d out of %d)", matched, d.Len()).
					Put("matched", matched).
					Put("nrSchemas", d.Len()).
					Put("reports", keyword.Reports(candidates)))
			})
		}),
	}
}

// AnyOf requires the instance to be valid against at least one subschema.
func AnyOf() keyword.Registration {
	return keyword.Registration{
		Keyword:  "anyOf",
		Digester: keyword.SchemaArray("anyOf"),
		Constructor: keyword.Typed(func(d *keyword.SchemaArrayDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				candidates, matched, err := keyword.Candidates(p, report, data, d.Name, d.Indices)
				if err != nil {
					return err
				}
				if matched > 0 {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgSchemaNoMatch, "instance failed to match at least one required schema among %d", d.Len()).
					Put("nrSchemas", d.Len()).
					Put("reports", keyword.Reports(candidates)))
			})
		}),
	}
}

// OneOf requires the instance to be valid against exactly one subschema.
func OneOf() keyword.Registration {
	return keyword.Registration{
		Keyword:  "oneOf",
		Digester: keyword.SchemaArray("oneOf"),
		Constructor: keyword.Typed(func(d *keyword.SchemaArrayDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				candidates, matched, err := keyword.Candidates(p, report, data, d.Name, d.Indices)
				if err != nil {
					return err
				}
				if matched == 1 {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgOneOfFail, "instance failed to match exactly one schema (matched %d out of %d)", matched, d.Len()).
					Put("matched", matched).
					Put("nrSchemas", d.Len()).
					Put("reports", keyword.Reports(candidates)))
			})
		}),
	}
}

// NotDigest is the digest of "not".
type NotDigest struct{}

// Keyword returns "not".
func (NotDigest) Keyword() string {
	return "not"
}

// Not requires the instance to be invalid against the subschema.
func Not() keyword.Registration {
	return keyword.Registration{
		Keyword: "not",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			if _, ok := schema["not"].(map[string]any); !ok {
				return nil, keyword.Invalid("not", "must be a schema, found %s", keyword.Render(schema["not"]))
			}
			return NotDigest{}, nil
		},
		Constructor: keyword.Typed(func(NotDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				c, err := keyword.ApplySubschema(p, report, data, "not")
				if err != nil {
					return err
				}
				if !c.Report.IsSuccess() {
					return nil
				}
				return report.Error(keyword.NewMessage(data, "not").
					Msg(sv.MsgNotFail, "instance matched a schema which it should not have"))
			})
		}),
	}
}
