package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, config *Config, stdin string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), config, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	config, err := parseFlags([]string{"-schema", "s.json", "-output", "json", "-deep", "a.json", "b.json"}, &stderr)
	require.NoError(t, err)
	assert.Equal(t, "s.json", config.Schema)
	assert.Equal(t, OutputJSON, config.Output)
	assert.True(t, config.Deep)
	assert.Equal(t, []string{"a.json", "b.json"}, config.Files)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no schema", []string{"a.json"}},
		{"no files", []string{"-schema", "s.json"}},
		{"bad output", []string{"-schema", "s.json", "-output", "xml", "a.json"}},
		{"unknown flag", []string{"-nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			_, err := parseFlags(tt.args, &stderr)
			assert.Error(t, err)
		})
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.json", personSchema)
	valid := writeFile(t, dir, "alice.json", `{"name": "alice", "age": 30}`)
	invalid := writeFile(t, dir, "bob.json", `{"age": -1}`)
	broken := writeFile(t, dir, "broken.json", `{"name": `)

	tests := []struct {
		name  string
		files []string
		want  int
	}{
		{"valid", []string{valid}, exitValid},
		{"invalid", []string{valid, invalid}, exitInvalid},
		{"undecodable", []string{invalid, broken}, exitError},
		{"missing file", []string{filepath.Join(dir, "nope-*.json")}, exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, &Config{Schema: schema, Output: OutputText, Files: tt.files}, "")
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestRun_TextOutput(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.json", personSchema)
	invalid := writeFile(t, dir, "bob.json", `{"age": -1}`)

	code, stdout, _ := runCLI(t, &Config{Schema: schema, Output: OutputText, Files: []string{invalid}}, "")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout, "== "+invalid+" ==")
	assert.Contains(t, stdout, "Status: INVALID")
	assert.Contains(t, stdout, "Errors: 1, Warnings: 0")
}

func TestRun_QuietHidesValid(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.json", personSchema)
	valid := writeFile(t, dir, "alice.json", `{"name": "alice"}`)

	code, stdout, _ := runCLI(t, &Config{Schema: schema, Output: OutputText, Quiet: true, Files: []string{valid}}, "")
	assert.Equal(t, exitValid, code)
	assert.Empty(t, stdout)
}

func TestRun_JSONOutputFromStdin(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.yaml", "type: object\nrequired: [name]\n")

	code, stdout, _ := runCLI(t, &Config{Schema: schema, Output: OutputJSON, Files: []string{"-"}}, "age: 3\n")
	assert.Equal(t, exitInvalid, code)

	var outputs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &outputs))
	require.Len(t, outputs, 1)
	assert.Equal(t, "stdin", outputs[0]["instance"])
	assert.Equal(t, false, outputs[0]["valid"])
	assert.NotEmpty(t, outputs[0]["id"])
	assert.NotNil(t, outputs[0]["report"])
}

func TestRun_DraftOverride(t *testing.T) {
	dir := t.TempDir()
	// "required": true only means something under draft v3.
	schema := writeFile(t, dir, "v3.json", `{"properties": {"name": {"required": true}}}`)
	instance := writeFile(t, dir, "empty.json", `{}`)

	code, _, _ := runCLI(t, &Config{Schema: schema, Draft: "draftv3", Output: OutputText, Files: []string{instance}}, "")
	assert.Equal(t, exitInvalid, code)

	code, _, stderr := runCLI(t, &Config{Schema: schema, Draft: "draftv9", Output: OutputText, Files: []string{instance}}, "")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Error:")
}

func TestRun_Dump(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.json", personSchema)
	invalid := writeFile(t, dir, "bob.json", `{}`)

	_, stdout, _ := runCLI(t, &Config{Schema: schema, Output: OutputText, Dump: true, Files: []string{invalid}}, "")
	assert.Contains(t, stdout, "schemavalidator.Message")
}

func TestRun_BadSchema(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "bad.json", `[1, 2]`)
	instance := writeFile(t, dir, "a.json", `{}`)

	code, _, stderr := runCLI(t, &Config{Schema: schema, Output: OutputText, Files: []string{instance}}, "")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "Error:")
}

func TestRun_Each(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.json", personSchema)
	lines := writeFile(t, dir, "people.ndjson", "{\"name\": \"a\"}\n{\"age\": 1}\n")
	array := writeFile(t, dir, "people.json", `[{"name": "a"}, {}]`)

	code, stdout, _ := runCLI(t, &Config{Schema: schema, Output: OutputText, Each: true, Files: []string{lines, array}}, "")
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout, "== "+lines+"[1] ==")
	assert.Contains(t, stdout, "== "+array+"#/1 ==")
	assert.Equal(t, 2, strings.Count(stdout, "Status: INVALID"))
	assert.Equal(t, 2, strings.Count(stdout, "Status: VALID"))
}

func TestRun_EachMalformed(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "person.json", personSchema)
	array := writeFile(t, dir, "people.json", `[{"name": "a"}, {"name": ]`)

	code, _, stderr := runCLI(t, &Config{Schema: schema, Output: OutputText, Each: true, Files: []string{array}}, "")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "failed to decode element 1")
}
