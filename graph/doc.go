// Package graph reconciles declared graph types with the graphs reported by
// the server and mediates every vertex, edge and traversal request through
// the reconciled structure.
//
// # Reconciliation
//
// A Graph is built once from the server's descriptor of the graph and the
// declared graph type of the same name, if any:
//
//	g, err := graph.Load(ctx, db, "social", reg)
//
// or, when the descriptor is already at hand:
//
//	g, err := graph.New(db, desc, declared)
//
// Reconciliation makes no request. It:
//
//   - takes the graph key from _key, falling back to name
//   - seeds the edge definitions and orphan collections from the declared type
//   - adds the orphan collections and edge definitions the server reports
//     but the declaration lacks (logged at info level when the database is
//     verbose)
//   - checks that every declared edge collection is an edge collection of
//     the database
//
// Declared edge definitions win over server-reported ones of the same
// collection. No graph is returned when reconciliation fails. A Graph never
// changes afterwards and may be shared by several goroutines.
//
// # Vertices and Edges
//
//	alice, err := g.CreateVertex(ctx, "person", map[string]any{"name": "alice"})
//	bob, err := g.CreateVertex(ctx, "person", map[string]any{"name": "bob"},
//	    graph.WaitForSync(true))
//	e, err := g.CreateEdge(ctx, "knows", alice.ID(), bob.ID(), nil)
//
// CreateEdge only accepts the edge collections of the graph and checks its
// arguments before any request is made. Link accepts identifiers and
// documents alike; unsaved documents are saved first:
//
//	carol := person.NewDocument(map[string]any{"name": "carol"})
//	e, err := g.Link(ctx, "knows", graph.Doc(alice), graph.Doc(carol), nil)
//	e, err = g.Link(ctx, "knows", graph.ID("person/1"), graph.Doc(bob), nil)
//
// Unlink deletes every edge between two vertices. It is not atomic: on the
// first failed deletion it returns the number of edges deleted so far along
// with the error.
//
//	n, err := g.Unlink(ctx, "knows", graph.Doc(alice), graph.Doc(bob))
//
// # Traversals
//
// Traversals run on the server. Exactly one of Direction and Expander must
// be set:
//
//	result, err := g.Traverse(ctx, graph.Doc(alice), graph.Traversal{
//	    Direction: graph.Outbound,
//	    MaxDepth:  2,
//	})
//
// # Errors
//
// Server rejections are reported as *arangox.CreationError,
// *arangox.DeletionError and *arangox.TraversalError, which carry the
// server message, the HTTP status and the raw response. Structural problems
// are *arangox.SchemaError and bad arguments *arangox.InvalidArgumentError.
// Nothing is retried.
package graph
