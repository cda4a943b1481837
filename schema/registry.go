package schema

import (
	"maps"
	"slices"
	"sync"

	"github.com/syssam/arangox"
)

// Registry maps graph type names to their declarations.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]*GraphType
	strict bool
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// Strict makes Register fail when a type name is already registered.
func Strict() RegistryOption {
	return func(r *Registry) {
		r.strict = true
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{types: make(map[string]*GraphType)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds gt to the registry under its name. It fails with a
// SchemaError if gt has no edge definitions, no name, or an edge definition
// without a collection name. An existing type of the same name is replaced
// unless the registry is strict.
func (r *Registry) Register(gt *GraphType) error {
	if err := Check(gt); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[gt.name]; ok && r.strict {
		return arangox.NewSchemaError(gt.name, "graph type is already registered")
	}
	r.types[gt.name] = gt
	return nil
}

// Check reports whether gt may be registered.
func Check(gt *GraphType) error {
	if gt == nil {
		return arangox.NewSchemaError("", "graph type is nil")
	}
	if gt.name == "" {
		return arangox.NewSchemaError("", "graph type has no name")
	}
	if len(gt.edges) == 0 {
		return arangox.NewSchemaError(gt.name, "graph type has no edge definition")
	}
	for i, d := range gt.edges {
		if d == nil || d.Collection() == "" {
			return arangox.NewSchemaError(gt.name, "edge definition %d has no collection", i)
		}
		if slices.Contains(d.From(), "") || slices.Contains(d.To(), "") {
			return arangox.NewSchemaError(gt.name, "edge definition %q references an empty vertex collection name", d.Collection())
		}
	}
	return nil
}

// Lookup returns the graph type registered under name.
func (r *Registry) Lookup(name string) (*GraphType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gt, ok := r.types[name]
	if !ok {
		return nil, arangox.NewNotFoundError("graph type", name)
	}
	return gt, nil
}

// Exists reports whether a graph type is registered under name.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// All returns a snapshot of the registered graph types.
func (r *Registry) All() map[string]*GraphType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.types)
}

// Swap removes the graph types registered under replaced and registers
// types, as one step: if any of types fails Check, or a strict registry
// already holds one of their names outside replaced, the registry is left
// unchanged.
func (r *Registry) Swap(replaced []string, types []*GraphType) error {
	for _, gt := range types {
		if err := Check(gt); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.strict {
		seen := make(map[string]bool, len(types))
		for _, gt := range types {
			_, taken := r.types[gt.name]
			if seen[gt.name] || taken && !slices.Contains(replaced, gt.name) {
				return arangox.NewSchemaError(gt.name, "graph type is already registered")
			}
			seen[gt.name] = true
		}
	}
	for _, name := range replaced {
		delete(r.types, name)
	}
	for _, gt := range types {
		r.types[gt.name] = gt
	}
	return nil
}

// Remove deletes the graph type registered under name, if any.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, name)
}
