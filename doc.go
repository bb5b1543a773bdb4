// Package schemavalidator validates JSON instances against JSON Schema
// draft v3 and draft v4 schemas.
//
// Schemas and instances are plain decoded values (map[string]any, []any,
// string, bool, nil and json.Number). Numbers keep their decimal text so
// that large integers and exact decimals compare correctly.
//
// # Quick Start
//
//	import (
//	    sv "github.com/gofhir/schemavalidator"
//	    "github.com/gofhir/schemavalidator/engine"
//	    "github.com/gofhir/schemavalidator/loader"
//	)
//
//	doc, err := loader.LoadFile("person.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	schema, err := engine.New(doc, sv.WithDraftDetection(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := schema.Validate(instance)
//	if !report.IsSuccess() {
//	    for _, msg := range report.Errors() {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Reports
//
// Validation results are collected in a Report. Messages below the report's
// log level are dropped but still count towards success. A message at or
// above the exception threshold aborts processing with a *ProcessingError.
//
// # Functional Options
//
//	schema, err := engine.New(doc,
//	    sv.WithDraft(sv.DraftV3),
//	    sv.WithLogLevel(sv.LevelWarning),
//	    sv.WithExceptionThreshold(sv.LevelError),
//	    sv.WithDeepCheck(true),
//	)
//
// # Packages
//
//   - keyword: keyword registry, digests and the digest cache
//   - keyword/common, keyword/draftv3, keyword/draftv4: keyword validators
//   - library: the built-in keyword registry for both drafts
//   - engine: schema binding and the recursive validation processor
//   - loader: JSON and YAML decoding and a document store
//   - worker, stream: concurrent batch and streaming validation
//   - metrics: Prometheus export of validation metrics
package schemavalidator
