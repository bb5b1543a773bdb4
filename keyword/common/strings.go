package common

import (
	"regexp"
	"unicode/utf8"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
)

// CountDigest is the digest of keywords holding a non-negative integer bound.
type CountDigest struct {
	Name  string
	Limit int
}

// Keyword returns the keyword name.
func (d *CountDigest) Keyword() string {
	return d.Name
}

// CountDigester reads a non-negative integer keyword.
func CountDigester(name string) keyword.Digester {
	return func(schema map[string]any) (keyword.Digest, error) {
		limit, err := keyword.CountValue(schema, name)
		if err != nil {
			return nil, err
		}
		return &CountDigest{Name: name, Limit: limit}, nil
	}
}

// MinLength validates the minimum length of strings, in code points.
func MinLength() keyword.Registration {
	return keyword.Registration{
		Keyword:  "minLength",
		Digester: CountDigester("minLength"),
		Constructor: keyword.Typed(func(d *CountDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				s, ok := data.Instance().Current().(string)
				if !ok {
					return nil
				}
				if n := utf8.RuneCountInString(s); n < d.Limit {
					return report.Error(keyword.NewMessage(data, d.Name).
						Msgf(sv.MsgMinLengthTooShort, "string %q is too short (length: %d, required minimum: %d)", s, n, d.Limit).
						Put("value", s).
						Put("found", n).
						Put("minLength", d.Limit))
				}
				return nil
			})
		}),
	}
}

// MaxLength validates the maximum length of strings, in code points.
func MaxLength() keyword.Registration {
	return keyword.Registration{
		Keyword:  "maxLength",
		Digester: CountDigester("maxLength"),
		Constructor: keyword.Typed(func(d *CountDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				s, ok := data.Instance().Current().(string)
				if !ok {
					return nil
				}
				if n := utf8.RuneCountInString(s); n > d.Limit {
					return report.Error(keyword.NewMessage(data, d.Name).
						Msgf(sv.MsgMaxLengthTooLong, "string %q is too long (length: %d, maximum allowed: %d)", s, n, d.Limit).
						Put("value", s).
						Put("found", n).
						Put("maxLength", d.Limit))
				}
				return nil
			})
		}),
	}
}

// PatternDigest is the digest of pattern.
type PatternDigest struct {
	Regex *regexp.Regexp
}

// Keyword returns "pattern".
func (d *PatternDigest) Keyword() string {
	return "pattern"
}

// Pattern validates strings against a regular expression. Matching is a
// search: the expression is not implicitly anchored.
func Pattern() keyword.Registration {
	return keyword.Registration{
		Keyword: "pattern",
		Digester: func(schema map[string]any) (keyword.Digest, error) {
			expr, ok := schema["pattern"].(string)
			if !ok {
				return nil, keyword.Invalid("pattern", "must be a string, found %s", keyword.Render(schema["pattern"]))
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, keyword.Invalid("pattern", "is not a valid regular expression: %v", err)
			}
			return &PatternDigest{Regex: re}, nil
		},
		Constructor: keyword.Typed(func(d *PatternDigest) keyword.Validator {
			return keyword.ValidatorFunc(func(_ pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
				s, ok := data.Instance().Current().(string)
				if !ok || d.Regex.MatchString(s) {
					return nil
				}
				return report.Error(keyword.NewMessage(data, "pattern").
					Msgf(sv.MsgPatternNoMatch, "regex %q does not match input string %q", d.Regex.String(), s).
					Put("regex", d.Regex.String()).
					Put("string", s))
			})
		}),
	}
}
