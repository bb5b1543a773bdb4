// Package pool provides sync.Pool wrappers for reducing GC pressure.
package pool

import (
	"strconv"
	"strings"
	"sync"
)

// PathBuilder builds JSON Pointer strings (RFC 6901) in a reusable buffer.
// Every appended reference token is prefixed with '/' and escaped, so the
// result always re-parses to the same token sequence.
type PathBuilder struct {
	buf []byte
}

// pathBuilderPool holds reusable PathBuilder instances.
var pathBuilderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{
			buf: make([]byte, 0, 128),
		}
	},
}

// AcquirePathBuilder gets a PathBuilder from the pool.
// Call Release() when done to return it to the pool.
func AcquirePathBuilder() *PathBuilder {
	pb := pathBuilderPool.Get().(*PathBuilder)
	pb.Reset()
	return pb
}

// Release returns the PathBuilder to the pool.
func (b *PathBuilder) Release() {
	if b == nil {
		return
	}
	// Don't return oversized buffers to the pool
	if cap(b.buf) <= 4096 {
		pathBuilderPool.Put(b)
	}
}

// Reset clears the buffer without deallocating.
func (b *PathBuilder) Reset() {
	b.buf = b.buf[:0]
}

// Len returns the current length of the pointer string.
func (b *PathBuilder) Len() int {
	return len(b.buf)
}

// AppendToken appends "/" followed by the escaped token.
func (b *PathBuilder) AppendToken(token string) {
	b.buf = append(b.buf, '/')
	if !strings.ContainsAny(token, "~/") {
		b.buf = append(b.buf, token...)
		return
	}
	for i := 0; i < len(token); i++ {
		switch c := token[i]; c {
		case '~':
			b.buf = append(b.buf, '~', '0')
		case '/':
			b.buf = append(b.buf, '~', '1')
		default:
			b.buf = append(b.buf, c)
		}
	}
}

// AppendIndex appends "/" followed by an array index.
func (b *PathBuilder) AppendIndex(index int) {
	b.buf = append(b.buf, '/')
	b.buf = strconv.AppendInt(b.buf, int64(index), 10)
}

// String returns the built pointer as a string.
// This creates a single allocation for the final string.
func (b *PathBuilder) String() string {
	return string(b.buf)
}

// Bytes returns the underlying byte slice (no copy).
// The returned slice is only valid until the next modification.
func (b *PathBuilder) Bytes() []byte {
	return b.buf
}

// BuildPath is a convenience function that builds a pointer using a callback.
// The PathBuilder is automatically returned to the pool after the callback.
//
// Example:
//
//	ptr := pool.BuildPath(func(b *pool.PathBuilder) {
//	    b.AppendToken("properties")
//	    b.AppendToken("a/b")
//	    b.AppendIndex(0)
//	})
//	// "/properties/a~1b/0"
func BuildPath(fn func(*PathBuilder)) string {
	pb := AcquirePathBuilder()
	defer pb.Release()
	fn(pb)
	return pb.String()
}

// JoinTokens renders tokens as a pointer string.
func JoinTokens(tokens ...string) string {
	if len(tokens) == 0 {
		return ""
	}
	pb := AcquirePathBuilder()
	defer pb.Release()
	for _, t := range tokens {
		pb.AppendToken(t)
	}
	return pb.String()
}

// UnescapeToken reverses the RFC 6901 escaping of a single reference token.
func UnescapeToken(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}
