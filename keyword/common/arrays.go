package common

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
)

// MinItems validates the minimum number of array elements.
func MinItems() keyword.Registration {
	return keyword.Registration{
		Keyword:  "minItems",
		Digester: CountDigester("minItems"),
		Constructor: keyword.Typed(func(d *CountDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				arr, ok := data.Instance().Current().([]any)
				if !ok || len(arr) >= d.Limit {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgMinItemsTooFew, "array is too short: must have at least %d elements but instance has %d elements", d.Limit, len(arr)).
					Put("minItems", d.Limit).
					Put("found", len(arr)))
			})
		}),
	}
}

// MaxItems validates the maximum number of array elements.
func MaxItems() keyword.Registration {
	return keyword.Registration{
		Keyword:  "maxItems",
		Digester: CountDigester("maxItems"),
		Constructor: keyword.Typed(func(d *CountDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				arr, ok := data.Instance().Current().([]any)
				if !ok || len(arr) <= d.Limit {
					return nil
				}
				return report.Error(keyword.NewMessage(data, d.Name).
					Msgf(sv.MsgMaxItemsTooMany, "array is too long: must have at most %d elements but instance has %d elements", d.Limit, len(arr)).
					Put("maxItems", d.Limit).
					Put("found", len(arr)))
			})
		}),
	}
}

// FlagDigest is the digest of boolean keywords.
type FlagDigest struct {
	Name string
	Set  bool
}

// Keyword returns the keyword name.
func (d *FlagDigest) Keyword() string {
	return d.Name
}

// UniqueItems validates that array elements are pairwise distinct when set.
func UniqueItems() keyword.Registration {
	return keyword.Registration{
		Keyword: "uniqueItems",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			set, err := keyword.BoolValue(schema, "uniqueItems", false)
			if err != nil {
				return nil, err
			}
			return &FlagDigest{Name: "uniqueItems", Set: set}, nil
		},
		Constructor: keyword.Typed(func(d *FlagDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				arr, ok := data.Instance().Current().([]any)
				if !d.Set || !ok {
					return nil
				}
				for i := 1; i < len(arr); i++ {
					for j := 0; j < i; j++ {
						if keyword.Equal(arr[i], arr[j]) {
							return report.Error(keyword.NewMessage(data, d.Name).
								Msg(sv.MsgUniqueItemsDuplicate, "array must not contain duplicate elements").
								Put("duplicates", []int{j, i}))
						}
					}
				}
				return nil
			})
		}),
	}
}

// TupleDigest is the digest of additionalItems. Size is the number of
// schemas in an "items" array; Allowed is false only when additional items
// are forbidden.
type TupleDigest struct {
	Allowed bool
	Size    int
}

// Keyword returns "additionalItems".
func (d *TupleDigest) Keyword() string {
	return "additionalItems"
}

// AdditionalItems rejects elements beyond a tuple "items" when
// "additionalItems" is false. Schema-valued additionalItems are applied to
// those elements by the engine.
func AdditionalItems() keyword.Registration {
	return keyword.Registration{
		Keyword: "additionalItems",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			d := &TupleDigest{Allowed: true}
			switch v := schema["additionalItems"].(type) {
			case bool:
				d.Allowed = v
			case map[string]any:
			default:
				return nil, keyword.Invalid("additionalItems", "must be a boolean or a schema, found %s", keyword.Render(v))
			}
			items, ok := schema["items"].([]any)
			if !ok {
				// no tuple: every element is an item
				d.Allowed = true
			}
			d.Size = len(items)
			return d, nil
		},
		Constructor: keyword.Typed(func(d *TupleDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				arr, ok := data.Instance().Current().([]any)
				if d.Allowed || !ok || len(arr) <= d.Size {
					return nil
				}
				return report.Error(keyword.NewMessage(data, "additionalItems").
					Msgf(sv.MsgAdditionalItems, "array only allows %d elements, but instance has %d elements", d.Size, len(arr)).
					Put("allowed", d.Size).
					Put("found", len(arr)))
			})
		}),
	}
}
