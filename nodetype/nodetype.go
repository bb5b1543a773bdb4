// Package nodetype classifies decoded JSON values.
package nodetype

import (
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// NodeType is the JSON type of a value as seen by JSON Schema.
type NodeType uint8

// JSON Schema primitive types. Unknown is returned for Go values that are not
// a decoded JSON document.
const (
	Unknown NodeType = iota
	Array
	Boolean
	Integer
	Null
	Number
	Object
	String
)

var names = [...]string{
	Unknown: "unknown",
	Array:   "array",
	Boolean: "boolean",
	Integer: "integer",
	Null:    "null",
	Number:  "number",
	Object:  "object",
	String:  "string",
}

// All lists the schema primitive types in name order.
var All = []NodeType{Array, Boolean, Integer, Null, Number, Object, String}

// String returns the schema name of the type.
func (t NodeType) String() string {
	if int(t) >= len(names) {
		return names[Unknown]
	}
	return names[t]
}

// MarshalText renders the schema name.
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// FromName returns the type with the given schema name.
func FromName(name string) (NodeType, bool) {
	for _, t := range All {
		if names[t] == name {
			return t, true
		}
	}
	return Unknown, false
}

// Of classifies v. It accepts what JSON decoders produce (nil, bool,
// string, json.Number, float64, []any, map[string]any) plus Go integer kinds.
// A number is an Integer when its value has no fractional part, so 1.0 is an
// Integer.
func Of(v any) NodeType {
	switch n := v.(type) {
	case nil:
		return Null
	case bool:
		return Boolean
	case string:
		return String
	case []any:
		return Array
	case map[string]any:
		return Object
	case json.Number:
		if IsIntegral(n) {
			return Integer
		}
		return Number
	case float64:
		return floatType(n)
	case float32:
		return floatType(float64(n))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Integer
	default:
		return Unknown
	}
}

func floatType(f float64) NodeType {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
		return Integer
	}
	return Number
}

// IsIntegral reports whether a JSON number literal has an integral value.
func IsIntegral(n json.Number) bool {
	s := string(n)
	if !strings.ContainsAny(s, ".eE") {
		return s != ""
	}
	r, ok := new(big.Rat).SetString(s)
	return ok && r.IsInt()
}

// Set is an immutable set of node types.
type Set uint16

// NewSet creates a set holding types.
func NewSet(types ...NodeType) Set {
	var s Set
	for _, t := range types {
		s = s.Add(t)
	}
	return s
}

// Add returns a set that also holds t.
func (s Set) Add(t NodeType) Set {
	return s | 1<<t
}

// Contains reports whether t is a member of the set.
func (s Set) Contains(t NodeType) bool {
	return s&(1<<t) != 0
}

// Matches is Contains, except that Number also matches Integer instances.
func (s Set) Matches(t NodeType) bool {
	if s.Contains(t) {
		return true
	}
	return t == Integer && s.Contains(Number)
}

// Len returns the number of types in the set.
func (s Set) Len() int {
	n := 0
	for _, t := range All {
		if s.Contains(t) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set holds no type.
func (s Set) IsEmpty() bool {
	return s == 0
}

// Names returns the type names in the set, sorted.
func (s Set) Names() []string {
	out := make([]string, 0, len(All))
	for _, t := range All {
		if s.Contains(t) {
			out = append(out, t.String())
		}
	}
	sort.Strings(out)
	return out
}

// MarshalJSON renders the set as a sorted array of type names.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}
