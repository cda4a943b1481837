// Package load reads graph type declarations from YAML files.
//
// A declaration file lists graph types with their edge definitions and
// orphan collections:
//
//	graphs:
//	  - name: social
//	    comment: people and what they write
//	    edges:
//	      - collection: knows
//	        from: [person]
//	        to: [person]
//	      - collection: wrote
//	        from: [person]
//	        to: [post]
//	    orphans: [tags]
//
// Parse and ParseFile check every declaration before returning, so a file
// is either accepted as a whole or rejected:
//
//	types, err := load.ParseFile("schema.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := load.Register(reg, types); err != nil {
//	    return err
//	}
//
// # Hot Reload
//
// Watch keeps a registry in sync with a file. Invalid versions of the file
// are logged and ignored:
//
//	w, err := load.Watch("schema.yaml", reg, load.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	w.Start()
//	defer w.Stop()
//
// Graphs already loaded keep the graph type they were reconciled with.
package load
