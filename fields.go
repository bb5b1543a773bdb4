package schemavalidator

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Fields is a string-keyed object that remembers insertion order.
// Rendered reports rely on that order, so messages and nested sub-report
// maps are built on Fields rather than on Go maps.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields creates an empty Fields.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any, 8)}
}

// Put sets key to value. A key that is already present keeps its position.
func (f *Fields) Put(key string, value any) *Fields {
	if f.values == nil {
		f.values = make(map[string]any, 8)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
	return f
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Clone returns a shallow copy: values are shared, ordering is not.
func (f *Fields) Clone() *Fields {
	c := &Fields{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]any, len(f.values)),
	}
	copy(c.keys, f.keys)
	for k, v := range f.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON writes the object with keys in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := f.writeMembers(&buf, false); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeMembers writes "k":v pairs; leadingComma is set when the caller has
// already written members of its own.
func (f *Fields) writeMembers(buf *bytes.Buffer, leadingComma bool) error {
	if f == nil {
		return nil
	}
	for i, k := range f.keys {
		if i > 0 || leadingComma {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return err
		}
		buf.Write(vb)
	}
	return nil
}
