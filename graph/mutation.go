package graph

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/database"
	"github.com/syssam/arangox/dialect"
)

// unlinkBatchSize is the batch size used to look up the edges to unlink.
const unlinkBatchSize = 100

type options struct {
	waitForSync bool
}

// Option configures a mutation.
type Option func(*options)

// WaitForSync makes the server sync the change to disk before answering.
func WaitForSync(wait bool) Option {
	return func(o *options) {
		o.waitForSync = wait
	}
}

func params(opts []Option) url.Values {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return dialect.WaitForSync(o.waitForSync)
}

// CreateVertex validates attrs with the field rules of collection and adds
// a vertex to the graph. The stored vertex is put in the document cache and
// returned from there.
func (g *Graph) CreateVertex(ctx context.Context, collection string, attrs map[string]any, opts ...Option) (*database.Document, error) {
	coll, err := g.db.Collection(collection)
	if err != nil {
		return nil, err
	}
	if err := coll.Validate(attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	op := "create vertex in " + collection
	resp, err := g.db.Transport().Post(ctx, g.URL()+"/vertex/"+url.PathEscape(collection), attrs, params(opts))
	if err != nil {
		return nil, fmt.Errorf("graph: %s: %w", op, err)
	}
	if !resp.OK(http.StatusCreated, http.StatusAccepted) {
		return nil, arangox.NewCreationError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	return stored(ctx, coll, op, resp, "vertex", attrs)
}

// DeleteVertex deletes a vertex and, on the server, every edge touching it.
func (g *Graph) DeleteVertex(ctx context.Context, doc *database.Document, opts ...Option) error {
	return g.remove(ctx, "vertex", doc, opts)
}

// CreateEdge adds an edge from fromID to toID in collection, which must be
// one of the edge definitions of the graph. The identifiers and attrs are
// checked before any request is made.
func (g *Graph) CreateEdge(ctx context.Context, collection, fromID, toID string, attrs map[string]any, opts ...Option) (*database.Document, error) {
	if fromID == "" {
		return nil, arangox.NewInvalidArgumentError("fromID", "empty document id")
	}
	if toID == "" {
		return nil, arangox.NewInvalidArgumentError("toID", "empty document id")
	}
	if err := g.checkDefinition(collection); err != nil {
		return nil, err
	}
	coll, err := g.db.Collection(collection)
	if err != nil {
		return nil, err
	}
	if err := coll.ValidatePrivate("_from", fromID); err != nil {
		return nil, err
	}
	if err := coll.ValidatePrivate("_to", toID); err != nil {
		return nil, err
	}
	ed := coll.NewEdge(fromID, toID, attrs)
	if err := ed.Validate(); err != nil {
		return nil, err
	}
	payload := ed.Store()

	op := "create edge in " + collection
	resp, err := g.db.Transport().Post(ctx, g.URL()+"/edge/"+url.PathEscape(collection), payload, params(opts))
	if err != nil {
		return nil, fmt.Errorf("graph: %s: %w", op, err)
	}
	if !resp.OK(http.StatusCreated, http.StatusAccepted) {
		return nil, arangox.NewCreationError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	return stored(ctx, coll, op, resp, "edge", payload)
}

// Link creates an edge in collection between a and b. Endpoints given as
// unsaved documents are saved first.
func (g *Graph) Link(ctx context.Context, collection string, a, b Endpoint, attrs map[string]any, opts ...Option) (*database.Document, error) {
	if err := g.checkDefinition(collection); err != nil {
		return nil, err
	}
	from, err := a.resolve(ctx, "a", true)
	if err != nil {
		return nil, err
	}
	to, err := b.resolve(ctx, "b", true)
	if err != nil {
		return nil, err
	}
	return g.CreateEdge(ctx, collection, from, to, attrs, opts...)
}

// Unlink deletes every edge of collection going from a to b and returns the
// number of deleted edges.
//
// Unlink is not atomic: it stops at the first failed deletion and returns
// the edges deleted so far together with the error. The remaining edges are
// left in place.
func (g *Graph) Unlink(ctx context.Context, collection string, a, b Endpoint) (int, error) {
	if err := g.checkDefinition(collection); err != nil {
		return 0, err
	}
	from, err := a.resolve(ctx, "a", false)
	if err != nil {
		return 0, err
	}
	to, err := b.resolve(ctx, "b", false)
	if err != nil {
		return 0, err
	}
	coll, err := g.db.Collection(collection)
	if err != nil {
		return 0, err
	}
	edges, err := coll.FetchByExample(ctx, map[string]any{"_from": from, "_to": to}, unlinkBatchSize)
	if err != nil {
		return 0, err
	}
	for i, e := range edges {
		if err := g.DeleteEdge(ctx, e); err != nil {
			return i, err
		}
	}
	return len(edges), nil
}

// DeleteEdge deletes an edge.
func (g *Graph) DeleteEdge(ctx context.Context, doc *database.Document, opts ...Option) error {
	return g.remove(ctx, "edge", doc, opts)
}

// Delete deletes the graph on the server. Its collections are kept.
func (g *Graph) Delete(ctx context.Context) error {
	op := "delete graph " + g.key
	resp, err := g.db.Transport().Delete(ctx, g.URL(), nil)
	if err != nil {
		return fmt.Errorf("graph: %s: %w", op, err)
	}
	if !resp.InRange(http.StatusOK, http.StatusAccepted) || resp.Body.Failed() {
		return arangox.NewDeletionError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	return nil
}

func (g *Graph) checkDefinition(collection string) error {
	if _, ok := g.defs[collection]; !ok {
		return arangox.NewSchemaError(g.key, "%q is not among the edge definitions", collection)
	}
	return nil
}

// remove deletes a vertex or an edge and evicts it from the document cache.
func (g *Graph) remove(ctx context.Context, kind string, doc *database.Document, opts []Option) error {
	if doc == nil || doc.ID() == "" {
		return arangox.NewInvalidArgumentError(kind, "document has no identifier")
	}
	id := doc.ID()
	collection, key, ok := arangox.SplitID(id)
	if !ok {
		return arangox.NewInvalidArgumentError(kind, fmt.Sprintf("%q is not a document id", id))
	}
	op := "delete " + kind + " " + id
	u := g.URL() + "/" + kind + "/" + url.PathEscape(collection) + "/" + url.PathEscape(key)
	resp, err := g.db.Transport().Delete(ctx, u, params(opts))
	if err != nil {
		return fmt.Errorf("graph: %s: %w", op, err)
	}
	if !resp.OK(http.StatusOK, http.StatusAccepted) {
		return arangox.NewDeletionError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	return g.db.Forget(ctx, id)
}

// stored caches the document created by op, made of the sent attributes
// and the metadata returned under field, and returns it from the cache.
func stored(ctx context.Context, coll *database.Collection, op string, resp *dialect.Response, field string, sent map[string]any) (*database.Document, error) {
	meta := resp.Body.Object(field)
	key := meta.String("_key")
	if key == "" {
		return nil, arangox.NewCreationError(op, "response has no "+field+" key", resp.StatusCode, resp.Body)
	}
	attrs := make(map[string]any, len(sent)+len(meta))
	maps.Copy(attrs, sent)
	maps.Copy(attrs, meta)
	if _, ok := attrs["_id"]; !ok {
		attrs["_id"] = coll.Name() + "/" + key
	}
	return coll.Remember(ctx, attrs)
}
