package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/schema"
)

// Load fetches the graph called name and reconciles it with the graph type
// registered under the same name in reg, if any. reg may be nil.
func Load(ctx context.Context, db Database, name string, reg *schema.Registry) (*Graph, error) {
	resp, err := db.Transport().Get(ctx, db.GraphsURL()+"/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("graph: load %s: %w", name, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, arangox.NewNotFoundError("graph", name)
	case resp.StatusCode != http.StatusOK, resp.Body.Failed():
		return nil, fmt.Errorf("graph: load %s: status %d: %s", name, resp.StatusCode, resp.Body.ErrorMessage())
	}
	desc, err := ParseDescriptor(resp.Body.Object("graph"))
	if err != nil {
		return nil, err
	}
	var declared *schema.GraphType
	if reg != nil {
		if gt, err := reg.Lookup(name); err == nil {
			declared = gt
		}
	}
	return New(db, desc, declared)
}

// Create creates a graph called name with the structure of gt and returns
// it reconciled with the server's answer.
func Create(ctx context.Context, db Database, name string, gt *schema.GraphType) (*Graph, error) {
	if name == "" {
		return nil, arangox.NewInvalidArgumentError("name", "empty graph name")
	}
	if err := schema.Check(gt); err != nil {
		return nil, err
	}
	defs := gt.EdgeDefinitions()
	records := make([]any, len(defs))
	for i, d := range defs {
		records[i] = d.Record()
	}
	orphans := gt.OrphanCollections()
	if orphans == nil {
		orphans = []string{}
	}
	body := map[string]any{
		"name":              name,
		"edgeDefinitions":   records,
		"orphanCollections": orphans,
	}

	op := "create graph " + name
	resp, err := db.Transport().Post(ctx, db.GraphsURL(), body, nil)
	if err != nil {
		return nil, fmt.Errorf("graph: %s: %w", op, err)
	}
	if !resp.OK(http.StatusCreated, http.StatusAccepted) || resp.Body.Failed() {
		return nil, arangox.NewCreationError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	desc, err := ParseDescriptor(resp.Body.Object("graph"))
	if err != nil {
		return nil, err
	}
	return New(db, desc, gt)
}
