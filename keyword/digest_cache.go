package keyword

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/cache"
	"github.com/gofhir/schemavalidator/tree"
)

// DigestCache holds the bound validators of schema nodes.
//
// Entries are keyed by draft, loading URI and schema pointer, so a cache
// must only serve schema trees over a single document per loading URI.
// It is safe for concurrent use.
type DigestCache struct {
	registry *Registry
	entries  *cache.Cache[uint64, nodeEntry]
	metrics  *sv.Metrics
}

type nodeEntry struct {
	id         string
	validators []Bound
}

// NewDigestCache creates a cache over registry holding at most size schema
// nodes. metrics may be nil.
func NewDigestCache(registry *Registry, size int, metrics *sv.Metrics) *DigestCache {
	return &DigestCache{
		registry: registry,
		entries:  cache.New[uint64, nodeEntry](size),
		metrics:  metrics,
	}
}

// Validators returns the validators for the schema node at the current
// pointer of schema, in dispatch order. A node that is not a JSON object
// has no validators.
func (c *DigestCache) Validators(draft sv.Draft, schema *tree.SchemaTree) ([]Bound, error) {
	node, ok := schema.Current().(map[string]any)
	if !ok {
		return nil, nil
	}

	id := nodeID(draft, schema)
	load := func() (nodeEntry, error) {
		v, err := c.build(draft, node, schema)
		return nodeEntry{id: id, validators: v}, err
	}

	e, hit, err := c.entries.GetOrLoad(xxhash.Sum64String(id), load)
	if err != nil {
		return nil, err
	}
	if hit && e.id != id {
		// hash collision: build uncached
		e, err = load()
		if err != nil {
			return nil, err
		}
		hit = false
	}

	if c.metrics != nil {
		if hit {
			c.metrics.RecordCacheHit()
		} else {
			c.metrics.RecordCacheMiss()
		}
	}
	return e.validators, nil
}

func (c *DigestCache) build(draft sv.Draft, node map[string]any, schema *tree.SchemaTree) ([]Bound, error) {
	v, err := c.registry.bind(draft, node)
	if err != nil {
		return nil, fmt.Errorf("schema at %q: %w", schema.Pointer().String(), err)
	}
	return v, nil
}

// Stats returns statistics of the underlying cache.
func (c *DigestCache) Stats() cache.Stats {
	return c.entries.Stats()
}

func nodeID(draft sv.Draft, schema *tree.SchemaTree) string {
	return string(draft) + "\x00" + schema.LoadingURI() + "\x00" + schema.Pointer().String()
}
