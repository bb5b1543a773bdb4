package common

import (
	"github.com/shopspring/decimal"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
)

// LimitDigest is the digest of minimum and maximum.
type LimitDigest struct {
	Name      string
	Limit     decimal.Decimal
	Raw       any
	Exclusive bool
}

// Keyword returns the keyword name.
func (d *LimitDigest) Keyword() string {
	return d.Name
}

func limitDigester(name, exclusiveName string) keyword.Digester {
	return func(schema map[string]any) (keyword.Digest, error) {
		limit, err := keyword.DecimalValue(schema, name)
		if err != nil {
			return nil, err
		}
		exclusive, err := keyword.BoolValue(schema, exclusiveName, false)
		if err != nil {
			return nil, err
		}
		return &LimitDigest{Name: name, Limit: limit, Raw: schema[name], Exclusive: exclusive}, nil
	}
}

// Minimum validates "minimum" together with "exclusiveMinimum".
func Minimum() keyword.Registration {
	return keyword.Registration{
		Keyword:  "minimum",
		Digester: limitDigester("minimum", "exclusiveMinimum"),
		Constructor: keyword.Typed(func(d *LimitDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				value := data.Instance().Current()
				n, ok := keyword.Number(value)
				if !ok {
					return nil
				}
				switch cmp := n.Cmp(d.Limit); {
				case cmp < 0:
					return report.Error(keyword.NewMessage(data, d.Name).
						Msgf(sv.MsgMinimumTooSmall, "numeric instance is lower than the required minimum (minimum: %s, found: %s)",
							keyword.Render(d.Raw), keyword.Render(value)).
						Put("minimum", d.Raw).
						Put("found", value))
				case cmp == 0 && d.Exclusive:
					return report.Error(keyword.NewMessage(data, d.Name).
						Msgf(sv.MsgMinimumNotExclusive, "numeric instance is not strictly greater than the required minimum %s",
							keyword.Render(d.Raw)).
						Put("exclusiveMinimum", true).
						Put("minimum", d.Raw))
				}
				return nil
			})
		}),
	}
}

// Maximum validates "maximum" together with "exclusiveMaximum".
func Maximum() keyword.Registration {
	return keyword.Registration{
		Keyword:  "maximum",
		Digester: limitDigester("maximum", "exclusiveMaximum"),
		Constructor: keyword.Typed(func(d *LimitDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				value := data.Instance().Current()
				n, ok := keyword.Number(value)
				if !ok {
					return nil
				}
				switch cmp := n.Cmp(d.Limit); {
				case cmp > 0:
					return report.Error(keyword.NewMessage(data, d.Name).
						Msgf(sv.MsgMaximumTooLarge, "numeric instance is greater than the required maximum (maximum: %s, found: %s)",
							keyword.Render(d.Raw), keyword.Render(value)).
						Put("maximum", d.Raw).
						Put("found", value))
				case cmp == 0 && d.Exclusive:
					return report.Error(keyword.NewMessage(data, d.Name).
						Msgf(sv.MsgMaximumNotExclusive, "numeric instance is not strictly lower than the required maximum %s",
							keyword.Render(d.Raw)).
						Put("exclusiveMaximum", true).
						Put("maximum", d.Raw))
				}
				return nil
			})
		}),
	}
}

// DivisorDigest is the digest of divisibleBy and multipleOf.
type DivisorDigest struct {
	Name    string
	Divisor decimal.Decimal
	Raw     any
}

// Keyword returns the keyword name.
func (d *DivisorDigest) Keyword() string {
	return d.Name
}

// Divisor validates that numeric instances are a multiple of the keyword
// value. Draft v3 calls it "divisibleBy", draft v4 "multipleOf".
func Divisor(name string) keyword.Registration {
	return keyword.Registration{
		Keyword: name,
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			div, err := keyword.DecimalValue(schema, name)
			if err != nil {
				return nil, err
			}
			if !div.IsPositive() {
				return nil, keyword.Invalid(name, "must be strictly greater than 0")
			}
			return &DivisorDigest{Name: name, Divisor: div, Raw: schema[name]}, nil
		},
		Constructor: keyword.Typed(func(d *DivisorDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				value := data.Instance().Current()
				n, ok := keyword.Number(value)
				if !ok {
					return nil
				}
				if n.Mod(d.Divisor).IsZero() {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgDivisorRemainder, "remainder of division is not zero (%s / %s)",
						keyword.Render(value), keyword.Render(d.Raw)).
					Put("value", value).
					Put("divisor", d.Raw))
			})
		}),
	}
}
