// Package arangox is a client for ArangoDB named graphs.
//
// Graph types are declared up front, either in code or in a YAML file, and
// registered in a schema.Registry. Loading a graph reconciles what the
// server reports with the declared type:
//
//	reg := schema.NewRegistry()
//	reg.Register(schema.Define("social").
//	    Edges(edge.Collection("knows").From("person").To("person")).
//	    GraphType())
//
//	db := database.New("http://localhost:8529", "main", http.New())
//	if err := db.Reload(ctx); err != nil {
//	    return err
//	}
//	g, err := graph.Load(ctx, db, "social", reg)
//	if err != nil {
//	    return err
//	}
//	_, err = g.Link(ctx, "knows", graph.ID("person/alice"), graph.Doc(bob), nil)
//
// This package holds what the sub-packages share: the error types
// returned by every operation and the document cache interface.
//
// # Packages
//
//   - schema, schema/edge, schema/field: graph type declarations and
//     document attribute rules
//   - schema/load: YAML declaration files and hot reload
//   - dialect, dialect/http: the HTTP transport
//   - database: collections, documents and the document cache
//   - graph: reconciliation, vertex and edge mutations, traversals
//   - config: environment configuration and logging
package arangox
