// arangox inspects and manipulates ArangoDB named graphs.
//
// Connection settings come from the environment (ARANGO_URL,
// ARANGO_DATABASE, ARANGO_USERNAME, ARANGO_PASSWORD, ARANGO_TIMEOUT) and
// graph types from the YAML file named by ARANGO_SCHEMA_FILE or --schema.
//
//	arangox inspect social tree
//	arangox --schema schema.yaml create social people
//	arangox traverse --direction any --max-depth 2 people person/alice
//	arangox schema check schema.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(&app{out: os.Stdout}).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "arangox: %v\n", err)
		os.Exit(1)
	}
}
