package metadata

import (
	"path/filepath"
	"sync"
)

// Resolver caches merged metadata per project root. Each caller receives its
// own copy, so cached values are never mutated.
type Resolver struct {
	mu    sync.Mutex
	cache map[string]*Metadata
	load  func(projectRoot string) *Metadata
}

// NewResolver creates a resolver backed by Load.
func NewResolver() *Resolver {
	return &Resolver{
		cache: make(map[string]*Metadata),
		load:  Load,
	}
}

// NewStaticResolver creates a resolver that returns md for every root.
func NewStaticResolver(md *Metadata) *Resolver {
	return &Resolver{
		cache: make(map[string]*Metadata),
		load:  func(string) *Metadata { return md.Clone() },
	}
}

// Get returns the metadata for projectRoot, loading it on first use.
func (r *Resolver) Get(projectRoot string) *Metadata {
	key := cacheKey(projectRoot)

	r.mu.Lock()
	defer r.mu.Unlock()

	md, ok := r.cache[key]
	if !ok {
		md = r.load(projectRoot)
		r.cache[key] = md
	}
	return md.Clone()
}

// Invalidate drops the cached metadata for projectRoot.
func (r *Resolver) Invalidate(projectRoot string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, cacheKey(projectRoot))
}

// Clear drops every cached entry.
func (r *Resolver) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*Metadata)
}

func cacheKey(projectRoot string) string {
	if abs, err := filepath.Abs(projectRoot); err == nil {
		return abs
	}
	return filepath.Clean(projectRoot)
}
