package schema

import (
	"log/slog"
	"sync"
)

// Registry caches normalized schemas across calls. Normalizations through a
// registry are serialized, so a definition never maps to two schemas.
type Registry struct {
	mu     sync.Mutex
	logger *slog.Logger
	cache  map[Definition]*Schema
	order  []*Schema
	names  map[string]*Schema
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...NormalizerOption) *Registry {
	n := NewNormalizer(opts...)
	return &Registry{
		logger: n.logger,
		cache:  make(map[Definition]*Schema),
		names:  make(map[string]*Schema),
	}
}

// Normalize normalizes def, reusing every schema resolved by earlier calls.
// A failed call leaves the registry unchanged.
func (r *Registry) Normalize(def Definition) (*Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := def.(*Schema); ok && s != nil {
		remember(r.cache, s)
		r.record(s, make(map[*Schema]bool))
		return s, nil
	}
	if hashable(def) {
		if s, ok := r.cache[def]; ok {
			return s, nil
		}
	}
	n := NewNormalizer(WithLogger(r.logger), withSeed(r.cache))
	s, memo, err := n.normalize(def)
	if err != nil {
		return nil, err
	}
	for d, ms := range memo {
		if _, ok := r.cache[d]; ok {
			continue
		}
		r.cache[d] = ms
	}
	r.record(s, make(map[*Schema]bool))
	return s, nil
}

// record appends the schemas reachable from s that were not seen yet, in
// depth-first declaration order.
func (r *Registry) record(s *Schema, visited map[*Schema]bool) {
	if visited[s] {
		return
	}
	visited[s] = true
	if _, ok := r.names[s.Name()]; !ok {
		r.names[s.Name()] = s
		r.order = append(r.order, s)
	}
	for _, v := range s.values {
		if ref := v.Type.Underlying().Schema(); ref != nil {
			r.record(ref, visited)
		}
	}
}

// Lookup returns the first registered schema with the given name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.names[name]
	return s, ok
}

// Schemas returns the registered schemas in registration order.
func (r *Registry) Schemas() []*Schema {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Schema(nil), r.order...)
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
