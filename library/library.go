// Package library assembles the keyword registries of the supported drafts.
package library

import (
	"fmt"
	"sync"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/keyword/draftv3"
	"github.com/gofhir/schemavalidator/keyword/draftv4"
)

// New builds a frozen registry holding every keyword of draft v3 and draft v4.
func New() (*keyword.Registry, error) {
	r := keyword.NewRegistry()
	if err := draftv3.Register(r); err != nil {
		return nil, fmt.Errorf("draft v3 library: %w", err)
	}
	if err := draftv4.Register(r); err != nil {
		return nil, fmt.Errorf("draft v4 library: %w", err)
	}
	r.Freeze()
	return r, nil
}

var defaultRegistry = sync.OnceValues(New)

// Default returns the shared registry built by New.
func Default() (*keyword.Registry, error) {
	return defaultRegistry()
}

// Keywords returns the keywords validated for draft, in dispatch order.
func Keywords(draft sv.Draft) ([]string, error) {
	r, err := Default()
	if err != nil {
		return nil, err
	}
	if !r.Supports(draft) {
		return nil, fmt.Errorf("%w: %s", sv.ErrUnknownDraft, draft)
	}
	return r.Keywords(draft), nil
}
