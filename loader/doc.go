// Package loader decodes schema and instance documents into the generic
// values the validator works on.
//
// JSON and YAML inputs decode to the same shapes: objects are
// map[string]any, arrays are []any and numbers are json.Number, so numeric
// keywords compare exact decimal values.
//
// Key components:
//   - Decode, ReadAll, LoadFile: decode one document
//   - PeekSchemaURI: read "$schema" from raw JSON without decoding it
//   - Store: decoded schema documents indexed by loading URI
//
// Example usage:
//
//	store := loader.NewStore()
//	uri, err := store.LoadFile("person.schema.json")
//	doc, _ := store.Get(uri)
//	factory, err := engine.NewFactory()
//	schema, err := factory.Schema(doc, tree.WithLoadingURI(uri))
package loader
