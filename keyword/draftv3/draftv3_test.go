package draftv3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/engine"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/keyword/draftv3"
	"github.com/gofhir/schemavalidator/loader"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	v, err := loader.Decode([]byte(s), loader.FormatJSON)
	require.NoError(t, err)
	return v
}

func validate(t *testing.T, schema, instance string) *sv.Report {
	t.Helper()
	s, err := engine.New(decode(t, schema), sv.WithDraft(sv.DraftV3))
	require.NoError(t, err)
	report, err := s.Validate(decode(t, instance))
	require.NoError(t, err)
	return report
}

func keys(report *sv.Report) []string {
	var out []string
	for _, m := range report.Messages() {
		out = append(out, m.Key())
	}
	return out
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name     string
		schema   string
		instance string
		want     []string
	}{
		{"type name", `{"type": "string"}`, `"a"`, nil},
		{"type mismatch", `{"type": "string"}`, `1`, []string{sv.MsgTypeNoMatch}},
		{"type any", `{"type": "any"}`, `{"a": null}`, nil},
		{"number accepts integer", `{"type": "number"}`, `3`, nil},
		{"integer accepts 1.0", `{"type": "integer"}`, `1.0`, nil},
		{"integer rejects 1.5", `{"type": "integer"}`, `1.5`, []string{sv.MsgTypeNoMatch}},

		{"disallow type", `{"disallow": "null"}`, `null`, []string{sv.MsgDisallowed}},
		{"disallow other type", `{"disallow": ["null", "boolean"]}`, `1`, nil},
		{"disallow schema", `{"disallow": [{"minimum": 3}]}`, `5`, []string{sv.MsgDisallowedSchema}},
		{"disallow schema no match", `{"disallow": [{"minimum": 3}]}`, `1`, nil},

		{"required property missing", `{"properties": {"a": {"required": true}, "b": {}}}`, `{"b": 1}`, []string{sv.MsgMissingMembers}},
		{"required property present", `{"properties": {"a": {"required": true}}}`, `{"a": 1}`, nil},
		{"required ignores non-objects", `{"properties": {"a": {"required": true}}}`, `[1]`, nil},

		{"divisibleBy", `{"divisibleBy": 0.01}`, `12.34`, nil},
		{"divisibleBy remainder", `{"divisibleBy": 3}`, `10`, []string{sv.MsgDivisorRemainder}},
		{"multipleOf is not v3", `{"multipleOf": 3}`, `10`, nil},

		{"extends single", `{"extends": {"maximum": 2}}`, `3`, []string{sv.MsgMaximumTooLarge}},
		{"extends array", `{"extends": [{"maximum": 2}, {"minimum": 5}]}`, `3`, []string{sv.MsgMaximumTooLarge, sv.MsgMinimumTooSmall}},
		{"extends valid", `{"extends": [{"type": "integer"}]}`, `3`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keys(validate(t, tt.schema, tt.instance)))
		})
	}
}

func TestRequired_MissingListed(t *testing.T) {
	report := validate(t, `{"properties": {"b": {"required": true}, "a": {"required": true}}}`, `{}`)
	require.Equal(t, 1, report.Len())

	missing, ok := report.Messages()[0].Get("missing")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, missing)
}

func TestTypeUnion_FailureCarriesReports(t *testing.T) {
	report := validate(t, `{"type": ["null", {"type": "string"}, {"minimum": 5}]}`, `1`)
	require.Equal(t, []string{sv.MsgTypeNoMatch, sv.MsgSchemaNoMatch}, keys(report))

	reports, ok := report.Messages()[1].Get("reports")
	require.True(t, ok)
	fields, ok := reports.(*sv.Fields)
	require.True(t, ok)
	assert.Equal(t, []string{"/type/1", "/type/2"}, fields.Keys())
}

func TestInvalidValues(t *testing.T) {
	schemas := []string{
		`{"type": 1}`,
		`{"type": ["string", 2]}`,
		`{"type": "text"}`,
		`{"disallow": {"type": "string"}}`,
		`{"extends": "base"}`,
		`{"extends": [{}, 1]}`,
		`{"properties": {"a": {"required": "yes"}}}`,
		`{"properties": {"a": 1}}`,
		`{"divisibleBy": 0}`,
	}
	for _, schema := range schemas {
		t.Run(schema, func(t *testing.T) {
			_, err := engine.New(decode(t, schema), sv.WithDraft(sv.DraftV3))
			assert.ErrorIs(t, err, keyword.ErrInvalidValue)
		})
	}
}

func TestRegister(t *testing.T) {
	r := keyword.NewRegistry()
	require.NoError(t, draftv3.Register(r))

	names := r.Keywords(sv.DraftV3)
	assert.Contains(t, names, "disallow")
	assert.Contains(t, names, "divisibleBy")
	assert.Contains(t, names, "extends")
	assert.NotContains(t, names, "multipleOf")
	assert.False(t, r.Supports(sv.DraftV4))
}
