package common

import (
	"regexp"
	"sort"
	"strings"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
)

// MembersDigest is the digest of additionalProperties: the member names and
// patterns an object may use when additional members are forbidden.
type MembersDigest struct {
	Allowed    bool
	Properties map[string]struct{}
	Patterns   []*regexp.Regexp
}

// Keyword returns "additionalProperties".
func (d *MembersDigest) Keyword() string {
	return "additionalProperties"
}

func (d *MembersDigest) declared(name string) bool {
	if _, ok := d.Properties[name]; ok {
		return true
	}
	for _, re := range d.Patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// AdditionalProperties rejects object members not covered by "properties"
// or "patternProperties" when "additionalProperties" is false.
// Schema-valued additionalProperties are applied by the engine.
func AdditionalProperties() keyword.Registration {
	return keyword.Registration{
		Keyword: "additionalProperties",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			d := &MembersDigest{Allowed: true}
			switch v := schema["additionalProperties"].(type) {
			case bool:
				d.Allowed = v
			case map[string]any:
			default:
				return nil, keyword.Invalid("additionalProperties", "must be a boolean or a schema, found %s", keyword.Render(v))
			}
			if d.Allowed {
				return d, nil
			}

			props, err := keyword.ObjectValue(schema, "properties")
			if err != nil {
				return nil, err
			}
			d.Properties = make(map[string]struct{}, len(props))
			for name := range props {
				d.Properties[name] = struct{}{}
			}

			patterns, err := keyword.ObjectValue(schema, "patternProperties")
			if err != nil {
				return nil, err
			}
			exprs := make([]string, 0, len(patterns))
			for expr := range patterns {
				exprs = append(exprs, expr)
			}
			sort.Strings(exprs)
			for _, expr := range exprs {
				re, err := regexp.Compile(expr)
				if err != nil {
					return nil, keyword.Invalid("patternProperties", "member %q is not a valid regular expression: %v", expr, err)
				}
				d.Patterns = append(d.Patterns, re)
			}
			return d, nil
		},
		Constructor: keyword.Typed(func(d *MembersDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				obj, ok := data.Instance().Current().(map[string]any)
				if d.Allowed || !ok {
					return nil
				}
				var unwanted []string
				for name := range obj {
					if !d.declared(name) {
						unwanted = append(unwanted, name)
					}
				}
				if len(unwanted) == 0 {
					return nil
				}
				sort.Strings(unwanted)
				return report.Error(keyword.NewMessage(data, "additionalProperties").
					Msgf(sv.MsgAdditionalProperties, "object instance has properties which are not allowed by the schema: [%s]", quoteAll(unwanted)).
					Put("unwanted", unwanted))
			})
		}),
	}
}

// RequireMembers logs an error at keyword when the current instance is an
// object lacking any of the required member names.
func RequireMembers(report *sv.Report, data *pipeline.Data, name string, required []string) error {
	obj, ok := data.Instance().Current().(map[string]any)
	if !ok || len(required) == 0 {
		return nil
	}
	var missing []string
	for _, member := range required {
		if _, ok := obj[member]; !ok {
			missing = append(missing, member)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return report.Error(keyword.NewMessage(data, name).
		Msgf(sv.MsgMissingMembers, "object has missing required properties ([%s])", quoteAll(missing)).
		Put("required", required).
		Put("missing", missing))
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = `"` + n + `"`
	}
	return strings.Join(quoted, ",")
}
