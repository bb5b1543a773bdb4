// Package tree provides immutable, pointer-addressed views over decoded JSON
// documents: the schema being applied and the instance being validated.
//
// A tree value couples a document with a current location. Descending
// returns a new value and never modifies the receiver, so trees can be
// shared freely across goroutines.
package tree

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/pointer"
)

// DefaultLoadingURI is the loading URI of schemas that were not loaded from an addressable location.
const DefaultLoadingURI = "#"

// node is the shared document/pointer pair behind both tree kinds.
type node struct {
	doc     any
	ptr     pointer.Pointer
	current any
}

func (n node) descend(tokens []string) (node, error) {
	cur := n.current
	for i, tok := range tokens {
		next, ok := pointer.Step(cur, tok)
		if !ok {
			return node{}, &sv.StructuralError{
				Pointer: n.ptr.Append(tokens[:i]...).String(),
				Token:   tok,
			}
		}
		cur = next
	}
	return node{doc: n.doc, ptr: n.ptr.Append(tokens...), current: cur}, nil
}

// SchemaTree is a schema document plus a current location inside it.
type SchemaTree struct {
	node
	loadingURI string
}

// SchemaOption configures a SchemaTree.
type SchemaOption func(*SchemaTree)

// WithLoadingURI records where the schema document was loaded from.
func WithLoadingURI(uri string) SchemaOption {
	return func(t *SchemaTree) {
		if uri != "" {
			t.loadingURI = uri
		}
	}
}

// NewSchemaTree creates a tree positioned at the document root.
func NewSchemaTree(doc any, opts ...SchemaOption) *SchemaTree {
	t := &SchemaTree{
		node:       node{doc: doc, current: doc},
		loadingURI: DefaultLoadingURI,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Root returns the whole schema document.
func (t *SchemaTree) Root() any {
	return t.doc
}

// Current returns the schema node at the current pointer.
func (t *SchemaTree) Current() any {
	return t.current
}

// Pointer returns the current location.
func (t *SchemaTree) Pointer() pointer.Pointer {
	return t.ptr
}

// LoadingURI returns the URI the document was loaded from.
func (t *SchemaTree) LoadingURI() string {
	return t.loadingURI
}

// Append returns a tree positioned tokens below the current location.
// It fails with a *schemavalidator.StructuralError when a token does not resolve.
func (t *SchemaTree) Append(tokens ...string) (*SchemaTree, error) {
	n, err := t.descend(tokens)
	if err != nil {
		return nil, err
	}
	return &SchemaTree{node: n, loadingURI: t.loadingURI}, nil
}

// AppendPointer is Append with the tokens of p.
func (t *SchemaTree) AppendPointer(p pointer.Pointer) (*SchemaTree, error) {
	return t.Append(p.Tokens()...)
}

// Fields renders the location for messages: {"loadingURI": ..., "pointer": ...}.
func (t *SchemaTree) Fields() *sv.Fields {
	return sv.NewFields().
		Put("loadingURI", t.loadingURI).
		Put("pointer", t.ptr.String())
}

// InstanceTree is an instance document plus a current location inside it.
type InstanceTree struct {
	node
}

// NewInstanceTree creates a tree positioned at the document root.
func NewInstanceTree(doc any) *InstanceTree {
	return &InstanceTree{node: node{doc: doc, current: doc}}
}

// Root returns the whole instance document.
func (t *InstanceTree) Root() any {
	return t.doc
}

// Current returns the value at the current pointer.
func (t *InstanceTree) Current() any {
	return t.current
}

// Pointer returns the current location.
func (t *InstanceTree) Pointer() pointer.Pointer {
	return t.ptr
}

// Append returns a tree positioned tokens below the current location.
func (t *InstanceTree) Append(tokens ...string) (*InstanceTree, error) {
	n, err := t.descend(tokens)
	if err != nil {
		return nil, err
	}
	return &InstanceTree{node: n}, nil
}

// Fields renders the location for messages: {"pointer": ...}.
func (t *InstanceTree) Fields() *sv.Fields {
	return sv.NewFields().Put("pointer", t.ptr.String())
}
