// Package edge provides the edge definitions that make up a graph schema.
//
// An edge definition names an edge collection and the vertex collections its
// edges may start from and end at. The edge collection name is the key of the
// definition: a graph holds at most one definition per edge collection.
//
// # Declaring Definitions
//
// Definitions are declared with a fluent builder:
//
//	knows := edge.Collection("knows").
//	    From("person").
//	    To("person").
//	    Definition()
//
//	// Several source and target collections
//	tagged := edge.Collection("tagged").
//	    From("post", "comment").
//	    To("tag").
//	    Definition()
//
// or directly:
//
//	edge.New("knows", []string{"person"}, []string{"person"})
//
// # Immutability
//
// A Definition never changes after construction. Its From and To accessors
// return sorted, de-duplicated copies, so callers may modify the returned
// slices freely.
//
// # Wire Format
//
// The server describes definitions as JSON objects:
//
//	{"collection": "knows", "from": ["person"], "to": ["person"]}
//
// Record is that wire form. Definitions reported by the server are accepted
// as-is, including empty from/to sets.
package edge
