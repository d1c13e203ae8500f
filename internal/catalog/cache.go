package catalog

import (
	"sync"

	"github.com/toyz/fnspec/pkg/specs"
	"github.com/toyz/fnspec/pkg/specs/builder"
)

type cacheItem struct {
	spec *specs.FunctionSpec
	err  error
}

// CachingBuilder memoizes the results of another function spec builder by
// definition text. Failed builds are cached as well.
type CachingBuilder struct {
	next  builder.FunctionSpecBuilder
	mu    sync.RWMutex
	items map[string]cacheItem
	limit int
}

// NewCachingBuilder wraps next. A limit of zero or less disables eviction.
func NewCachingBuilder(next builder.FunctionSpecBuilder, limit int) *CachingBuilder {
	return &CachingBuilder{
		next:  next,
		items: make(map[string]cacheItem),
		limit: limit,
	}
}

// Build returns the cached result for definition, building it on a miss
func (c *CachingBuilder) Build(definition string) (*specs.FunctionSpec, error) {
	c.mu.RLock()
	item, exists := c.items[definition]
	c.mu.RUnlock()
	if exists {
		return item.spec, item.err
	}

	spec, err := c.next.Build(definition)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limit > 0 && len(c.items) >= c.limit {
		// drop everything rather than track recency
		c.items = make(map[string]cacheItem)
	}
	c.items[definition] = cacheItem{spec: spec, err: err}
	return spec, err
}

// Size returns the number of cached definitions
func (c *CachingBuilder) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear drops every cached result
func (c *CachingBuilder) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]cacheItem)
}
