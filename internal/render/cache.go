package render

import (
	"sync"
	"text/template"
)

type cacheKey struct {
	root string
	name string
}

// Cache holds compiled templates keyed by template root and template name.
// Each Engine owns its own Cache.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*template.Template
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*template.Template)}
}

// Get returns the compiled template for (root, name) if present.
func (c *Cache) Get(root, name string) (*template.Template, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[cacheKey{root, name}]
	return t, ok
}

// Put stores a compiled template.
func (c *Cache) Put(root, name string, t *template.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{root, name}] = t
}

// Len returns the number of cached templates.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes every cached template.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*template.Template)
}
