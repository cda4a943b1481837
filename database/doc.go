// Package database provides handles on a database, its collections and
// documents.
//
// A Database is created without any network call. Reload lists the
// collections of the database, which graph reconciliation needs to tell
// edge collections from document collections:
//
//	db := database.New("http://localhost:8529", "social", transport,
//	    database.WithLogger(logger),
//	    database.WithVerbose(true),
//	)
//	if err := db.Reload(ctx); err != nil {
//	    return err
//	}
//
// # Field Rules
//
// Declare attaches field rules to a collection. They are checked before a
// document is saved and before a vertex or edge is created through a graph:
//
//	db.Declare("person", database.DocumentCollection,
//	    field.String("name").NotEmpty(),
//	    field.Int("age").NonNegative().Optional(),
//	)
//
// Private attributes (_key, _id, _from, _to, _rev) are always checked with
// field.ValidatePrivate.
//
// # Documents
//
//	person, _ := db.Collection("person")
//	doc := person.NewDocument(map[string]any{"name": "alice"})
//	if err := doc.Save(ctx); err != nil {
//	    return err
//	}
//	fmt.Println(doc.ID()) // person/12345
//
// # Document Cache
//
// Saved documents are kept in an arangox.Cache (in memory by default),
// encoded with msgpack. Collection.Document reads the cache before asking
// the server. Graph mutations keep the cache current: created vertices and
// edges are stored, deleted ones are evicted.
//
//	db := database.New(url, "social", transport, database.WithCache(myCache))
package database
