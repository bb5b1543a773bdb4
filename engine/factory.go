// Package engine binds schemas to keyword libraries and validates instances.
package engine

import (
	"fmt"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/library"
	"github.com/gofhir/schemavalidator/nodetype"
	"github.com/gofhir/schemavalidator/pkg/logger"
	"github.com/gofhir/schemavalidator/pointer"
	"github.com/gofhir/schemavalidator/tree"
)

// Factory binds schema documents using one configuration.
// It is safe for concurrent use.
type Factory struct {
	options  *sv.Options
	registry *keyword.Registry
	log      *logger.Logger
}

// NewFactory creates a factory over the built-in draft v3 and v4 keywords.
func NewFactory(opts ...sv.Option) (*Factory, error) {
	registry, err := library.Default()
	if err != nil {
		return nil, err
	}
	return NewFactoryWithRegistry(registry, opts...)
}

// NewFactoryWithRegistry creates a factory over a custom keyword registry.
func NewFactoryWithRegistry(registry *keyword.Registry, opts ...sv.Option) (*Factory, error) {
	options := sv.Apply(opts...)
	if !registry.Supports(options.Draft) {
		return nil, fmt.Errorf("%w: %s", sv.ErrUnknownDraft, options.Draft)
	}
	return &Factory{
		options:  options,
		registry: registry,
		log:      logger.For("engine"),
	}, nil
}

// Options returns the factory configuration.
func (f *Factory) Options() *sv.Options {
	return f.options
}

// Schema binds the schema document doc.
func (f *Factory) Schema(doc any, opts ...tree.SchemaOption) (*Schema, error) {
	return f.bind(tree.NewSchemaTree(doc, opts...), f.draftOf(doc))
}

// SchemaAt binds the subschema of doc located by the JSON Pointer ptr.
func (f *Factory) SchemaAt(doc any, ptr string, opts ...tree.SchemaOption) (*Schema, error) {
	p, err := pointer.Parse(ptr)
	if err != nil {
		return nil, err
	}
	t, err := tree.NewSchemaTree(doc, opts...).AppendPointer(p)
	if err != nil {
		return nil, err
	}
	return f.bind(t, f.draftOf(doc))
}

func (f *Factory) bind(t *tree.SchemaTree, draft sv.Draft) (*Schema, error) {
	if _, ok := t.Current().(map[string]any); !ok {
		return nil, fmt.Errorf("schema at %q must be an object, found %s", t.Pointer().String(), nodetype.Of(t.Current()))
	}

	digests := keyword.NewDigestCache(f.registry, f.options.DigestCacheSize, f.options.Metrics)
	p := NewProcessor(draft, digests, f.options.Metrics)

	// Bind the root eagerly so malformed keywords fail here.
	if _, err := digests.Validators(draft, t); err != nil {
		return nil, err
	}
	f.log.Debug("bound %s schema %s at %q", draft, t.LoadingURI(), t.Pointer().String())

	return &Schema{
		tree:      t,
		options:   f.options,
		processor: p,
		metrics:   f.options.Metrics,
	}, nil
}

// draftOf picks the configured draft, or the one named by "$schema" when
// detection is enabled and the draft is registered.
func (f *Factory) draftOf(doc any) sv.Draft {
	if !f.options.DetectDraft {
		return f.options.Draft
	}
	root, _ := doc.(map[string]any)
	uri, _ := root["$schema"].(string)
	if d, ok := sv.DraftFromSchemaURI(uri); ok && f.registry.Supports(d) {
		return d
	}
	return f.options.Draft
}

// New binds doc with a factory over the built-in keywords.
func New(doc any, opts ...sv.Option) (*Schema, error) {
	f, err := NewFactory(opts...)
	if err != nil {
		return nil, err
	}
	return f.Schema(doc)
}
