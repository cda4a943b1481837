package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/database"
	"github.com/syssam/arangox/dialect"
	"github.com/syssam/arangox/schema"
	"github.com/syssam/arangox/schema/edge"
)

// Database is the part of a database handle a graph depends on.
// It is implemented by *database.Database.
type Database interface {
	URL() string
	GraphsURL() string
	Transport() dialect.Transport
	Collection(name string) (*database.Collection, error)
	IsEdgeCollection(name string) bool
	Forget(ctx context.Context, id string) error
	Verbose() bool
	Logger() *zap.Logger
}

var _ Database = (*database.Database)(nil)

// Descriptor is a graph as reported by the server.
type Descriptor struct {
	Key               string        `json:"_key,omitempty"`
	Name              string        `json:"name,omitempty"`
	Rev               string        `json:"_rev,omitempty"`
	ID                string        `json:"_id,omitempty"`
	EdgeDefinitions   []edge.Record `json:"edgeDefinitions"`
	OrphanCollections []string      `json:"orphanCollections"`
}

// ParseDescriptor decodes a graph descriptor from a response object.
func ParseDescriptor(obj map[string]any) (*Descriptor, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("graph: encode descriptor: %w", err)
	}
	var desc Descriptor
	if err := json.Unmarshal(b, &desc); err != nil {
		return nil, arangox.NewSchemaError("", "malformed graph descriptor: %v", err)
	}
	return &desc, nil
}

// Graph is a graph whose declared structure was reconciled with the one
// reported by the server. A Graph is read-only once created and may be
// used by several goroutines.
type Graph struct {
	db      Database
	key     string
	rev     string
	id      string
	typ     *schema.GraphType
	defs    map[string]*edge.Definition
	orphans []string
}

// New reconciles the server descriptor desc with the declared graph type,
// which may be nil. Declared edge definitions win over server-reported ones
// of the same collection; server-reported definitions and orphan
// collections missing from the declaration are added. Every declared edge
// collection must be a known edge collection of db.
//
// New makes no request. It fails with a SchemaError, and returns no graph,
// if desc has neither _key nor name, if declared does not pass schema.Check
// or if a declared edge collection is unknown.
func New(db Database, desc *Descriptor, declared *schema.GraphType) (*Graph, error) {
	if desc == nil {
		return nil, arangox.NewSchemaError("", "graph descriptor is nil")
	}
	key := desc.Key
	if key == "" {
		key = desc.Name
	}
	if key == "" {
		return nil, arangox.NewSchemaError("", "graph descriptor has neither _key nor name")
	}
	g := &Graph{
		db:   db,
		key:  key,
		rev:  desc.Rev,
		id:   desc.ID,
		typ:  declared,
		defs: make(map[string]*edge.Definition),
	}
	var declaredDefs []*edge.Definition
	if declared != nil {
		if err := schema.Check(declared); err != nil {
			return nil, err
		}
		declaredDefs = declared.EdgeDefinitions()
		for _, d := range declaredDefs {
			g.defs[d.Collection()] = d
		}
		g.orphans = declared.OrphanCollections()
	}

	for _, o := range desc.OrphanCollections {
		if slices.Contains(g.orphans, o) {
			continue
		}
		g.orphans = append(g.orphans, o)
		g.note("orphan collection is not in graph definition, added it", zap.String("collection", o))
	}
	for _, r := range desc.EdgeDefinitions {
		if r.Collection == "" {
			return nil, arangox.NewSchemaError(key, "server reported an edge definition without collection")
		}
		if _, ok := g.defs[r.Collection]; ok {
			continue
		}
		d := r.Definition()
		g.defs[r.Collection] = d
		g.note("edge definition is not in graph definition, added it", zap.Stringer("definition", d))
	}
	for _, d := range declaredDefs {
		if !db.IsEdgeCollection(d.Collection()) {
			return nil, arangox.NewSchemaError(key, "%q is not a valid edge collection", d.Collection())
		}
		g.defs[d.Collection()] = d
	}
	return g, nil
}

func (g *Graph) note(msg string, fields ...zap.Field) {
	if !g.db.Verbose() {
		return
	}
	g.db.Logger().Info(msg, append([]zap.Field{zap.String("graph", g.key)}, fields...)...)
}

// Key returns the graph key.
func (g *Graph) Key() string {
	return g.key
}

// Name returns the graph name, which is its key.
func (g *Graph) Name() string {
	return g.key
}

// Rev returns the graph revision.
func (g *Graph) Rev() string {
	return g.rev
}

// ID returns the graph identifier.
func (g *Graph) ID() string {
	return g.id
}

// Type returns the declared graph type, or nil.
func (g *Graph) Type() *schema.GraphType {
	return g.typ
}

// URL returns the graph API root of the graph.
func (g *Graph) URL() string {
	return g.db.GraphsURL() + "/" + url.PathEscape(g.key)
}

// Definitions returns the reconciled edge definitions keyed by collection.
func (g *Graph) Definitions() map[string]*edge.Definition {
	return maps.Clone(g.defs)
}

// DefinitionNames returns the edge collections of the graph, sorted.
func (g *Graph) DefinitionNames() []string {
	return slices.Sorted(maps.Keys(g.defs))
}

// Definition returns the edge definition of collection.
func (g *Graph) Definition(collection string) (*edge.Definition, bool) {
	d, ok := g.defs[collection]
	return d, ok
}

// OrphanedCollections returns the orphan collections of the graph.
func (g *Graph) OrphanedCollections() []string {
	return slices.Clone(g.orphans)
}

// String implements fmt.Stringer.
func (g *Graph) String() string {
	return "Graph(" + g.key + ")"
}
