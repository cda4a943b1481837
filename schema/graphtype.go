package schema

import (
	"slices"

	"github.com/syssam/arangox/schema/edge"
)

// GraphType is the declared structure of a graph.
// A GraphType is immutable; every accessor returns a copy.
type GraphType struct {
	name    string
	edges   []*edge.Definition
	orphans []string
	comment string
}

// NewGraphType returns a graph type with the given edge definitions and
// orphan collections. The inputs are copied.
func NewGraphType(name string, edges []*edge.Definition, orphans ...string) *GraphType {
	gt := &GraphType{
		name:  name,
		edges: slices.Clone(edges),
	}
	seen := make(map[string]struct{}, len(orphans))
	for _, o := range orphans {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		gt.orphans = append(gt.orphans, o)
	}
	return gt
}

// Name returns the type name.
func (gt *GraphType) Name() string {
	return gt.name
}

// Comment returns the type comment.
func (gt *GraphType) Comment() string {
	return gt.comment
}

// EdgeDefinitions returns the declared edge definitions in declaration order.
func (gt *GraphType) EdgeDefinitions() []*edge.Definition {
	return slices.Clone(gt.edges)
}

// OrphanCollections returns the declared orphan collections in declaration
// order.
func (gt *GraphType) OrphanCollections() []string {
	return slices.Clone(gt.orphans)
}

// Builder is a fluent builder for graph types.
type Builder struct {
	name    string
	edges   []*edge.Builder
	orphans []string
	comment string
}

// Define starts the declaration of a graph type.
func Define(name string) *Builder {
	return &Builder{name: name}
}

// Edges adds edge definitions.
func (b *Builder) Edges(edges ...*edge.Builder) *Builder {
	b.edges = append(b.edges, edges...)
	return b
}

// Orphans adds orphan collections.
func (b *Builder) Orphans(collections ...string) *Builder {
	b.orphans = append(b.orphans, collections...)
	return b
}

// Comment sets the type comment.
func (b *Builder) Comment(c string) *Builder {
	b.comment = c
	return b
}

// GraphType returns the declared graph type.
func (b *Builder) GraphType() *GraphType {
	defs := make([]*edge.Definition, len(b.edges))
	for i, e := range b.edges {
		defs[i] = e.Definition()
	}
	gt := NewGraphType(b.name, defs, b.orphans...)
	gt.comment = b.comment
	return gt
}
