package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/engine"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/keyword/common"
	"github.com/gofhir/schemavalidator/loader"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := loader.Decode([]byte(s), loader.FormatJSON)
	require.NoError(t, err)
	return v
}

// messageKeys validates instance against schema under both drafts and
// returns the message keys, which must agree.
func messageKeys(t *testing.T, schema, instance string) []string {
	t.Helper()
	var keys [2][]string
	for i, draft := range []sv.Draft{sv.DraftV3, sv.DraftV4} {
		s, err := engine.New(decode(t, schema), sv.WithDraft(draft))
		require.NoError(t, err)
		report, err := s.Validate(decode(t, instance))
		require.NoError(t, err)
		for _, m := range report.Messages() {
			keys[i] = append(keys[i], m.Key())
		}
	}
	require.Equal(t, keys[0], keys[1], "drafts disagree")
	return keys[1]
}

func TestSharedKeywords(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		instance string
		want     []string
	}{
		{"minimum ok", `{"minimum": 2}`, `2`, nil},
		{"minimum too small", `{"minimum": 2}`, `1.999`, []string{sv.MsgMinimumTooSmall}},
		{"exclusive minimum", `{"minimum": 2, "exclusiveMinimum": true}`, `2.0`, []string{sv.MsgMinimumNotExclusive}},
		{"maximum ok", `{"maximum": 10}`, `10`, nil},
		{"maximum too large", `{"maximum": 10}`, `10.0001`, []string{sv.MsgMaximumTooLarge}},
		{"exclusive maximum", `{"maximum": 10, "exclusiveMaximum": true}`, `10`, []string{sv.MsgMaximumNotExclusive}},
		{"large integers", `{"maximum": 9007199254740993}`, `9007199254740994`, []string{sv.MsgMaximumTooLarge}},
		{"numeric keyword ignores strings", `{"minimum": 2}`, `"a"`, nil},

		{"minLength in code points", `{"minLength": 2}`, `"é"`, []string{sv.MsgMinLengthTooShort}},
		{"maxLength in code points", `{"maxLength": 2}`, `"日本"`, nil},
		{"maxLength exceeded", `{"maxLength": 2}`, `"abc"`, []string{sv.MsgMaxLengthTooLong}},
		{"pattern is a search", `{"pattern": "b+"}`, `"abbc"`, nil},
		{"pattern no match", `{"pattern": "^b"}`, `"abc"`, []string{sv.MsgPatternNoMatch}},
		{"pattern ignores numbers", `{"pattern": "^b"}`, `12`, nil},

		{"minItems", `{"minItems": 2}`, `[1]`, []string{sv.MsgMinItemsTooFew}},
		{"maxItems", `{"maxItems": 1}`, `[1, 2]`, []string{sv.MsgMaxItemsTooMany}},
		{"uniqueItems numeric equality", `{"uniqueItems": true}`, `[1, 1.0]`, []string{sv.MsgUniqueItemsDuplicate}},
		{"uniqueItems deep", `{"uniqueItems": true}`, `[{"a": [1]}, {"a": [1.0]}]`, []string{sv.MsgUniqueItemsDuplicate}},
		{"uniqueItems distinct", `{"uniqueItems": true}`, `[1, "1", true, null]`, nil},
		{"uniqueItems unset", `{"uniqueItems": false}`, `[1, 1]`, nil},

		{"additionalItems false", `{"items": [{}, {}], "additionalItems": false}`, `[1, 2, 3]`, []string{sv.MsgAdditionalItems}},
		{"additionalItems within tuple", `{"items": [{}, {}], "additionalItems": false}`, `[1, 2]`, nil},
		{"additionalItems without tuple", `{"items": {}, "additionalItems": false}`, `[1, 2, 3]`, nil},

		{"additionalProperties false", `{"properties": {"a": {}}, "additionalProperties": false}`, `{"a": 1, "b": 2}`, []string{sv.MsgAdditionalProperties}},
		{"additionalProperties patterns", `{"patternProperties": {"^x-": {}}, "additionalProperties": false}`, `{"x-a": 1}`, nil},
		{"additionalProperties true", `{"additionalProperties": true}`, `{"z": 1}`, nil},

		{"enum match", `{"enum": ["a", 1, null]}`, `1.0`, nil},
		{"enum object", `{"enum": [{"a": 1}]}`, `{"a": 1}`, nil},
		{"enum no match", `{"enum": ["a", 1]}`, `"b"`, []string{sv.MsgEnumNotInEnum}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, messageKeys(t, tt.schema, tt.instance))
		})
	}
}

func TestAdditionalProperties_ListsUnwantedSorted(t *testing.T) {
	s, err := engine.New(decode(t, `{"properties": {"a": {}}, "additionalProperties": false}`))
	require.NoError(t, err)
	report, err := s.Validate(decode(t, `{"c": 1, "a": 1, "b": 2}`))
	require.NoError(t, err)

	require.Equal(t, 1, report.Len())
	unwanted, ok := report.Messages()[0].Get("unwanted")
	require.True(t, ok)
	assert.Equal(t, []string{"b", "c"}, unwanted)
}

func TestUniqueItems_ReportsIndices(t *testing.T) {
	s, err := engine.New(decode(t, `{"uniqueItems": true}`))
	require.NoError(t, err)
	report, err := s.Validate(decode(t, `["a", "b", "a"]`))
	require.NoError(t, err)

	require.Equal(t, 1, report.Len())
	dup, _ := report.Messages()[0].Get("duplicates")
	assert.Equal(t, []int{0, 2}, dup)
}

func TestInvalidKeywordValues(t *testing.T) {
	schemas := []string{
		`{"minimum": "1"}`,
		`{"exclusiveMinimum": 1, "minimum": 1}`,
		`{"minLength": -1}`,
		`{"maxItems": 1.5}`,
		`{"pattern": "("}`,
		`{"pattern": 1}`,
		`{"uniqueItems": "yes"}`,
		`{"additionalItems": 1}`,
		`{"additionalProperties": false, "patternProperties": {"(": {}}}`,
		`{"enum": "a"}`,
	}
	for _, schema := range schemas {
		t.Run(schema, func(t *testing.T) {
			_, err := engine.New(decode(t, schema))
			assert.ErrorIs(t, err, keyword.ErrInvalidValue)
		})
	}
}

func TestRegistrations(t *testing.T) {
	r := keyword.NewRegistry()
	require.NoError(t, common.Register(r, sv.DraftV4))
	assert.Len(t, r.Keywords(sv.DraftV4), len(common.Registrations()))

	assert.Error(t, common.Register(r, sv.DraftV4), "registering twice")
}

func TestDivisor(t *testing.T) {
	reg := common.Divisor("multipleOf")
	r := keyword.NewRegistry()
	require.NoError(t, r.Register(sv.DraftV4, reg))

	_, err := reg.Digester(map[string]any{"multipleOf": 0})
	assert.ErrorIs(t, err, keyword.ErrInvalidValue)

	d, err := reg.Digester(decode(t, `{"multipleOf": 0.1}`).(map[string]any))
	require.NoError(t, err)
	assert.Equal(t, "multipleOf", d.Keyword())
}
