package common

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
)

// EnumDigest is the digest of enum.
type EnumDigest struct {
	Values []any
}

// Keyword returns "enum".
func (d *EnumDigest) Keyword() string {
	return "enum"
}

// Enum validates that the instance equals one of the enumerated values.
func Enum() keyword.Registration {
	return keyword.Registration{
		Keyword: "enum",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			values, ok := schema["enum"].([]any)
			if !ok {
				return nil, keyword.Invalid("enum", "must be an array, found %s", keyword.Render(schema["enum"]))
			}
			return &EnumDigest{Values: values}, nil
		},
		Constructor: keyword.Typed(func(d *EnumDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				value := data.Instance().Current()
				for _, candidate := range d.Values {
					if keyword.Equal(value, candidate) {
						return nil
					}
				}
				return report.Error(keyword.NewMessage(data, "enum").
					Msgf(sv.MsgEnumNotInEnum, "instance value (%s) not found in enum (possible values: %s)",
						keyword.Render(value), keyword.Render(d.Values)).
					Put("value", value).
					Put("enum", d.Values))
			})
		}),
	}
}
