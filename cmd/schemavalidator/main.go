// Package main implements the schemavalidator CLI tool.
// It validates JSON or YAML instance documents against a JSON Schema
// (draft v3 or draft v4).
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/engine"
	"github.com/gofhir/schemavalidator/loader"
	"github.com/gofhir/schemavalidator/pkg/logger"
	"github.com/gofhir/schemavalidator/stream"
	"github.com/gofhir/schemavalidator/tree"
	"github.com/gofhir/schemavalidator/worker"
)

const (
	version = "0.1.0"
	usage   = `schemavalidator - JSON Schema Validator

Usage:
  schemavalidator -schema <schema> [options] <file>...
  schemavalidator -schema <schema> [options] -           (read from stdin)
  cat instance.json | schemavalidator -schema s.json -   (pipe input)

Examples:
  schemavalidator -schema person.json alice.json
  schemavalidator -schema person.json -draft draftv3 alice.json
  schemavalidator -schema person.yaml -output json *.json
  schemavalidator -schema person.json -deep -unchecked bob.yaml
  schemavalidator -schema person.json -each people.ndjson

Exit status is 0 when every instance is valid, 1 when an instance is
invalid and 2 on usage or processing errors.

Options:
`
)

// Exit codes.
const (
	exitValid   = 0
	exitInvalid = 1
	exitError   = 2
)

// OutputFormat specifies the output format.
type OutputFormat string

// Output format constants.
const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config holds CLI configuration
type Config struct {
	Schema      string
	Pointer     string
	Draft       string
	Output      OutputFormat
	LogLevel    string
	Workers     int
	Deep        bool
	Unchecked   bool
	Each        bool
	Dump        bool
	Quiet       bool
	ShowVersion bool
	Files       []string
}

// ValidationOutput represents the JSON output structure
type ValidationOutput struct {
	ID       string     `json:"id"`
	Instance string     `json:"instance"`
	Valid    bool       `json:"valid"`
	Errors   int        `json:"errors"`
	Warnings int        `json:"warnings"`
	Report   *sv.Report `json:"report,omitempty"`
	Error    string     `json:"error,omitempty"`
	Duration string     `json:"duration"`
}

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitValid)
		}
		os.Exit(exitError)
	}

	if config.ShowVersion {
		fmt.Printf("schemavalidator v%s\n", version)
		os.Exit(exitValid)
	}

	os.Exit(run(context.Background(), config, os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*Config, error) {
	config := &Config{Output: OutputText}
	var output string

	fs := flag.NewFlagSet("schemavalidator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&config.Schema, "schema", "", "Schema file (JSON or YAML)")
	fs.StringVar(&config.Pointer, "pointer", "", "JSON Pointer to the subschema to apply")
	fs.StringVar(&config.Draft, "draft", "", "Schema draft: draftv3, draftv4 (default: from $schema, else draftv4)")
	fs.StringVar(&output, "output", "text", "Output format: text, json")
	fs.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error, none (default: $"+logger.EnvLevel+")")
	fs.IntVar(&config.Workers, "workers", 0, "Parallel validations (default: number of CPUs)")
	fs.BoolVar(&config.Deep, "deep", false, "Validate children of containers that already failed")
	fs.BoolVar(&config.Unchecked, "unchecked", false, "Report processing errors as fatal messages")
	fs.BoolVar(&config.Each, "each", false, "Validate each element of a top-level array or NDJSON input")
	fs.BoolVar(&config.Dump, "dump", false, "Dump the raw report structure after each result")
	fs.BoolVar(&config.Quiet, "quiet", false, "Only show invalid instances")
	fs.BoolVar(&config.ShowVersion, "v", false, "Show version")

	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch strings.ToLower(output) {
	case "json":
		config.Output = OutputJSON
	case "text":
		config.Output = OutputText
	default:
		fmt.Fprintf(stderr, "Error: unknown output format %q\n", output)
		return nil, fmt.Errorf("unknown output format %q", output)
	}

	config.Files = fs.Args()
	if !config.ShowVersion && (config.Schema == "" || len(config.Files) == 0) {
		fs.Usage()
		return nil, errors.New("a schema and at least one instance are required")
	}
	return config, nil
}

// input is one instance document to validate.
type input struct {
	name string
	data []byte
}

func run(ctx context.Context, config *Config, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logger.New(stderr, logger.LevelWarn)
	if config.LogLevel != "" {
		level, err := logger.ParseLevel(config.LogLevel)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		log.SetLevel(level)
	}
	logger.SetDefault(log)
	log = log.Named("cli")

	schema, err := loadSchema(config, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	log.Info("schema %s bound with %s", config.Schema, schema.Draft())

	inputs, readFailed := collectInputs(config.Files, stdin, log)

	var outputs []ValidationOutput
	var reports []*sv.Report
	if config.Each {
		outputs, reports = validateEach(ctx, schema, inputs, config, log)
	} else {
		outputs, reports = validateInputs(ctx, schema, inputs, config, log)
	}

	exit := exitValid
	if readFailed {
		exit = exitError
	}
	for i, out := range outputs {
		switch {
		case out.Error != "":
			exit = exitError
		case !out.Valid && exit == exitValid:
			exit = exitInvalid
		}

		if config.Output == OutputText {
			printTextResult(stdout, out, config)
		}
		if config.Dump && reports[i] != nil {
			spew.Fdump(stdout, reports[i].Messages())
		}
	}

	if config.Output == OutputJSON {
		b, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		fmt.Fprintln(stdout, string(b))
	}

	log.Info("validated %d instance(s)", len(outputs))
	return exit
}

// validator returns the checked or unchecked validation entry point.
func validator(schema *engine.Schema, config *Config) stream.Validator {
	if config.Unchecked {
		return stream.ValidatorFunc(func(instance any) (*sv.Report, error) {
			return schema.ValidateUnchecked(instance), nil
		})
	}
	return schema
}

// validateInputs validates every input as one instance, in parallel.
func validateInputs(ctx context.Context, schema *engine.Schema, inputs []input, config *Config, log *logger.Logger) ([]ValidationOutput, []*sv.Report) {
	data := make([][]byte, len(inputs))
	for i, in := range inputs {
		data[i] = in.data
	}

	validate := validator(schema, config)
	v := worker.ValidatorFunc(func(ctx context.Context, b []byte) (*sv.Report, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		instance, err := loader.Decode(b, loader.FormatAuto)
		if err != nil {
			return nil, fmt.Errorf("instance: %w", err)
		}
		return validate.Validate(instance)
	})

	batch := worker.NewBatchValidator(v, config.Workers).ValidateBatch(ctx, data)
	log.Debug("batch: %d valid, %d invalid, %d failed in %s",
		batch.ValidCount(), batch.InvalidCount(), batch.FailedJobs, batch.TotalDuration)

	outputs := make([]ValidationOutput, len(batch.Results))
	reports := make([]*sv.Report, len(batch.Results))
	for i, result := range batch.Results {
		if result.Error != nil {
			log.Error("%s: %v", inputs[i].name, result.Error)
		}
		outputs[i] = toOutput(result.ID, inputs[i].name, result.Report, result.Error, result.Duration)
		reports[i] = result.Report
	}
	return outputs, reports
}

// validateEach validates every element of each input separately.
func validateEach(ctx context.Context, schema *engine.Schema, inputs []input, config *Config, log *logger.Logger) ([]ValidationOutput, []*sv.Report) {
	streamer := stream.NewArrayValidator(validator(schema, config)).WithWorkerCount(config.Workers)

	var outputs []ValidationOutput
	var reports []*sv.Report
	for _, in := range inputs {
		start := time.Now()
		for result := range streamer.ValidateStreamParallel(ctx, bytes.NewReader(in.data)) {
			name := in.name
			switch {
			case result.Pointer != "":
				name += "#" + result.Pointer
			case result.Index >= 0:
				name += fmt.Sprintf("[%d]", result.Index)
			}
			if result.Error != nil {
				log.Error("%s: %v", name, result.Error)
			}
			outputs = append(outputs, toOutput(uuid.NewString(), name, result.Report, result.Error, time.Since(start)))
			reports = append(reports, result.Report)
		}
	}
	return outputs, reports
}

func loadSchema(config *Config, log *logger.Logger) (*engine.Schema, error) {
	raw, err := os.ReadFile(config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	doc, err := loader.Decode(raw, loader.FormatOf(config.Schema))
	if err != nil {
		return nil, fmt.Errorf("failed to decode schema %s: %w", config.Schema, err)
	}
	uri, err := loader.FileURI(config.Schema)
	if err != nil {
		return nil, err
	}
	store := loader.NewStore()
	store.Add(uri, doc)

	opts := []sv.Option{sv.WithDeepCheck(config.Deep)}
	switch {
	case config.Draft != "":
		opts = append(opts, sv.WithDraft(sv.Draft(config.Draft)))
	default:
		// JSON schemas are peeked without a second decode; YAML falls
		// back to detection on the decoded document.
		if declared, ok := loader.PeekSchemaURI(raw); ok {
			if d, ok := sv.DraftFromSchemaURI(declared); ok {
				opts = append(opts, sv.WithDraft(d))
				break
			}
			log.Warn("unrecognised $schema %q, using default draft", declared)
		}
		opts = append(opts, sv.WithDraftDetection(true))
	}

	factory, err := engine.NewFactory(opts...)
	if err != nil {
		return nil, err
	}
	bound, _ := store.Get(uri)
	if config.Pointer != "" {
		return factory.SchemaAt(bound, config.Pointer, tree.WithLoadingURI(uri))
	}
	return factory.Schema(bound, tree.WithLoadingURI(uri))
}

// collectInputs reads the named files, expanding glob patterns. "-" reads stdin.
// It reports whether any file could not be read.
func collectInputs(files []string, stdin io.Reader, log *logger.Logger) ([]input, bool) {
	var inputs []input
	failed := false

	for _, file := range files {
		if file == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				log.Error("reading stdin: %v", err)
				failed = true
				continue
			}
			inputs = append(inputs, input{name: "stdin", data: data})
			continue
		}

		matches, err := filepath.Glob(file)
		if err != nil {
			log.Error("pattern %q: %v", file, err)
			failed = true
			continue
		}
		if len(matches) == 0 {
			log.Error("no files match pattern: %s", file)
			failed = true
			continue
		}
		for _, match := range matches {
			data, err := os.ReadFile(match)
			if err != nil {
				log.Error("reading %s: %v", match, err)
				failed = true
				continue
			}
			inputs = append(inputs, input{name: match, data: data})
		}
	}
	return inputs, failed
}

func toOutput(id, name string, report *sv.Report, err error, elapsed time.Duration) ValidationOutput {
	out := ValidationOutput{
		ID:       id,
		Instance: name,
		Valid:    err == nil && report != nil && report.IsSuccess(),
		Report:   report,
		Duration: elapsed.Round(time.Microsecond).String(),
	}
	if err != nil {
		out.Error = err.Error()
	}
	if report != nil {
		for _, m := range report.Messages() {
			switch {
			case m.Level().IsError():
				out.Errors++
			case m.Level() == sv.LevelWarning:
				out.Warnings++
			}
		}
	}
	return out
}

func printTextResult(w io.Writer, out ValidationOutput, config *Config) {
	if config.Quiet && out.Valid {
		return
	}

	status := "VALID"
	if !out.Valid {
		status = "INVALID"
	}

	fmt.Fprintf(w, "== %s ==\n", out.Instance)
	fmt.Fprintf(w, "Status: %s\n", status)
	if out.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", out.Error)
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "Errors: %d, Warnings: %d\n", out.Errors, out.Warnings)
	fmt.Fprintf(w, "Duration: %s\n", out.Duration)

	if out.Report != nil && out.Report.Len() > 0 {
		fmt.Fprintln(w, "\nMessages:")
		for _, m := range out.Report.Messages() {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	fmt.Fprintln(w)
}
