// Package schema declares graph types and keeps them in a registry.
//
// A graph type is the locally declared structure of a graph: its edge
// definitions and its orphan collections (vertex collections that belong to
// the graph but take part in no edge definition). Declarations make no
// network calls; they are reconciled with the server's view of the graph
// when a graph is loaded (see package graph).
//
// # Declaring a Graph Type
//
//	social := schema.NewGraphType("social",
//	    []*edge.Definition{
//	        edge.Collection("knows").From("person").To("person").Definition(),
//	        edge.Collection("wrote").From("person").To("post").Definition(),
//	    },
//	    "tags",
//	)
//
// or with the builder:
//
//	social := schema.Define("social").
//	    Edges(edge.Collection("knows").From("person").To("person")).
//	    Orphans("tags").
//	    GraphType()
//
// # Registry
//
// Registration is explicit; there is no process-wide registry:
//
//	reg := schema.NewRegistry()
//	if err := reg.Register(social); err != nil {
//	    log.Fatal(err) // e.g. a type without edge definitions
//	}
//	gt, err := reg.Lookup("social")
//
// Registering a second type under the same name replaces the first, which
// allows declarations to be reloaded at runtime. Use Strict to reject
// duplicates instead:
//
//	reg := schema.NewRegistry(schema.Strict())
//
// Declarations can also be read from YAML files, see package load.
package schema
