// Package keyword defines how schema keywords are validated.
//
// Every keyword is registered per draft with two functions. A Digester
// reads the keyword (and any sibling it depends on) from a schema object
// and produces an immutable Digest. A Constructor turns that digest into a
// Validator. Digests and validators are built once per schema node and
// shared by all validations of that schema.
//
// Validators never recurse on their own: subschemas are applied through the
// pipeline.Processor handed to Validate, so the engine decides how
// recursive validation is performed.
package keyword

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/pipeline"
)

// Digest is the precomputed, immutable summary of one keyword of a schema object.
type Digest interface {
	Keyword() string
}

// Digester builds the digest of a keyword from the schema object holding it.
type Digester func(schema map[string]any) (Digest, error)

// Validator validates the instance of data against one keyword.
//
// Validation failures are logged into report. The returned error is non-nil
// only when processing must stop, either because report raised it or
// because a recursive call through p failed.
type Validator interface {
	Validate(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error

// Validate calls f.
func (f ValidatorFunc) Validate(p pipeline.Processor, report *sv.Report, data *pipeline.Data) error {
	return f(p, report, data)
}

// Constructor builds a validator from a digest.
type Constructor func(Digest) (Validator, error)

// Typed adapts a constructor taking a concrete digest type.
func Typed[D Digest](build func(D) Validator) Constructor {
	return func(d Digest) (Validator, error) {
		typed, ok := d.(D)
		if !ok {
			return nil, fmt.Errorf("keyword %q: unexpected digest type %T", d.Keyword(), d)
		}
		return build(typed), nil
	}
}

// Registration binds a keyword name to its digester and constructor.
type Registration struct {
	Keyword     string
	Digester    Digester
	Constructor Constructor
}

// ErrFrozen is returned when registering into a frozen registry.
var ErrFrozen = errors.New("keyword registry is frozen")

// Registry maps (draft, keyword) to registrations.
//
// A registry is built at startup and then frozen; lookups are safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	drafts map[sv.Draft]*table
	frozen bool
}

type table struct {
	entries map[string]Registration
	order   []string // sorted keyword names
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{drafts: make(map[sv.Draft]*table, 2)}
}

// Register adds a keyword to draft. Registering the same keyword twice for a
// draft is an error.
func (r *Registry) Register(draft sv.Draft, reg Registration) error {
	if reg.Keyword == "" || reg.Digester == nil || reg.Constructor == nil {
		return fmt.Errorf("incomplete registration for keyword %q", reg.Keyword)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	t, ok := r.drafts[draft]
	if !ok {
		t = &table{entries: make(map[string]Registration, 32)}
		r.drafts[draft] = t
	}
	if _, dup := t.entries[reg.Keyword]; dup {
		return fmt.Errorf("keyword %q already registered for %s", reg.Keyword, draft)
	}
	t.entries[reg.Keyword] = reg

	i := sort.SearchStrings(t.order, reg.Keyword)
	t.order = append(t.order, "")
	copy(t.order[i+1:], t.order[i:])
	t.order[i] = reg.Keyword
	return nil
}

// Lookup returns the registration of keyword for draft.
func (r *Registry) Lookup(draft sv.Draft, keyword string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.drafts[draft]
	if !ok {
		return Registration{}, false
	}
	reg, ok := t.entries[keyword]
	return reg, ok
}

// Keywords returns the keywords registered for draft in dispatch order.
func (r *Registry) Keywords(draft sv.Draft) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.drafts[draft]
	if !ok {
		return nil
	}
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Supports reports whether any keyword is registered for draft.
func (r *Registry) Supports(draft sv.Draft) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.drafts[draft]
	return ok
}

// Drafts returns the drafts with registered keywords, sorted.
func (r *Registry) Drafts() []sv.Draft {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sv.Draft, 0, len(r.drafts))
	for d := range r.drafts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Freeze rejects further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// bind builds the validators of every registered keyword present in node,
// in dispatch order.
func (r *Registry) bind(draft sv.Draft, node map[string]any) ([]Bound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.drafts[draft]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sv.ErrUnknownDraft, draft)
	}

	var out []Bound
	for _, name := range t.order {
		if _, present := node[name]; !present {
			continue
		}
		reg := t.entries[name]
		digest, err := reg.Digester(node)
		if err != nil {
			return nil, err
		}
		v, err := reg.Constructor(digest)
		if err != nil {
			return nil, err
		}
		out = append(out, Bound{Keyword: name, Validator: v})
	}
	return out, nil
}

// Bound is a validator together with the keyword it validates.
type Bound struct {
	Keyword   string
	Validator Validator
}
