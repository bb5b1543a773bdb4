// Package common implements the keywords whose semantics are identical in
// draft v3 and draft v4, and the building blocks the draft packages share.
package common

import (
	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
)

// Registrations returns the keywords shared by every draft.
func Registrations() []keyword.Registration {
	return []keyword.Registration{
		Enum(),
		Minimum(),
		Maximum(),
		MinLength(),
		MaxLength(),
		Pattern(),
		MinItems(),
		MaxItems(),
		UniqueItems(),
		AdditionalItems(),
		AdditionalProperties(),
	}
}

// Register adds the shared keywords to draft.
func Register(r *keyword.Registry, draft sv.Draft) error {
	for _, reg := range Registrations() {
		if err := r.Register(draft, reg); err != nil {
			return err
		}
	}
	return nil
}
