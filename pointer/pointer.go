// Package pointer implements JSON Pointers (RFC 6901) over decoded JSON documents.
package pointer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofhir/schemavalidator/pool"
)

// Pointer is an immutable sequence of reference tokens.
// The zero value is the empty pointer, which designates the whole document.
type Pointer struct {
	tokens []string
}

// Empty returns the pointer to the document root.
func Empty() Pointer {
	return Pointer{}
}

// New creates a pointer from raw (unescaped) tokens.
func New(tokens ...string) Pointer {
	if len(tokens) == 0 {
		return Pointer{}
	}
	t := make([]string, len(tokens))
	copy(t, tokens)
	return Pointer{tokens: t}
}

// Parse parses the string form of a pointer. The empty string is the root
// pointer; any other input must start with '/'.
func Parse(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	if s[0] != '/' {
		return Pointer{}, fmt.Errorf("invalid JSON pointer %q: must be empty or start with '/'", s)
	}
	raw := strings.Split(s[1:], "/")
	tokens := make([]string, len(raw))
	for i, r := range raw {
		if err := checkEscapes(r); err != nil {
			return Pointer{}, fmt.Errorf("invalid JSON pointer %q: %w", s, err)
		}
		tokens[i] = pool.UnescapeToken(r)
	}
	return Pointer{tokens: tokens}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Pointer {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func checkEscapes(token string) error {
	for i := 0; i < len(token); i++ {
		if token[i] != '~' {
			continue
		}
		if i+1 >= len(token) || (token[i+1] != '0' && token[i+1] != '1') {
			return fmt.Errorf("bad escape sequence at offset %d in token %q", i, token)
		}
	}
	return nil
}

// Append returns a new pointer with tokens appended. The receiver is unchanged.
func (p Pointer) Append(tokens ...string) Pointer {
	if len(tokens) == 0 {
		return p
	}
	t := make([]string, 0, len(p.tokens)+len(tokens))
	t = append(t, p.tokens...)
	t = append(t, tokens...)
	return Pointer{tokens: t}
}

// AppendIndex returns a new pointer with an array index appended.
func (p Pointer) AppendIndex(index int) Pointer {
	return p.Append(strconv.Itoa(index))
}

// Join returns a new pointer with all tokens of other appended.
func (p Pointer) Join(other Pointer) Pointer {
	return p.Append(other.tokens...)
}

// Tokens returns a copy of the raw tokens.
func (p Pointer) Tokens() []string {
	t := make([]string, len(p.tokens))
	copy(t, p.tokens)
	return t
}

// Len returns the number of tokens.
func (p Pointer) Len() int {
	return len(p.tokens)
}

// IsEmpty reports whether p designates the document root.
func (p Pointer) IsEmpty() bool {
	return len(p.tokens) == 0
}

// Parent returns the pointer without its last token. The parent of the root is the root.
func (p Pointer) Parent() Pointer {
	if len(p.tokens) <= 1 {
		return Pointer{}
	}
	return New(p.tokens[:len(p.tokens)-1]...)
}

// Last returns the last token, or "" for the root pointer.
func (p Pointer) Last() string {
	if len(p.tokens) == 0 {
		return ""
	}
	return p.tokens[len(p.tokens)-1]
}

// Equal reports whether both pointers have the same token sequence.
func (p Pointer) Equal(other Pointer) bool {
	if len(p.tokens) != len(other.tokens) {
		return false
	}
	for i := range p.tokens {
		if p.tokens[i] != other.tokens[i] {
			return false
		}
	}
	return true
}

// String renders the pointer; Parse(p.String()) is equal to p.
func (p Pointer) String() string {
	return pool.JoinTokens(p.tokens...)
}

// MarshalText renders the pointer string.
func (p Pointer) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Resolve returns the value p designates inside doc. Objects must be
// map[string]any and arrays []any, as produced by JSON decoders.
func (p Pointer) Resolve(doc any) (any, bool) {
	cur := doc
	for _, tok := range p.tokens {
		next, ok := Step(cur, tok)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Step resolves a single token against node.
func Step(node any, token string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[token]
		return v, ok
	case []any:
		idx, ok := arrayIndex(token)
		if !ok || idx >= len(n) {
			return nil, false
		}
		return n[idx], true
	default:
		return nil, false
	}
}

// arrayIndex parses an RFC 6901 array index: no sign, no leading zeros.
func arrayIndex(token string) (int, bool) {
	if token == "" || (len(token) > 1 && token[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return idx, true
}
