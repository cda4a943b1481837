package database

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/dialect"
)

// Document is a document or edge of a collection.
// A Document is not safe for concurrent modification.
type Document struct {
	coll  *Collection
	attrs map[string]any
	saved bool
}

// Collection returns the collection of the document.
func (d *Document) Collection() *Collection {
	return d.coll
}

// ID returns the document identifier ("collection/key"), or "" if the
// document was never saved.
func (d *Document) ID() string {
	return d.str("_id")
}

// Key returns the document key.
func (d *Document) Key() string {
	return d.str("_key")
}

// Rev returns the document revision.
func (d *Document) Rev() string {
	return d.str("_rev")
}

// From returns the _from attribute of an edge.
func (d *Document) From() string {
	return d.str("_from")
}

// To returns the _to attribute of an edge.
func (d *Document) To() string {
	return d.str("_to")
}

func (d *Document) str(name string) string {
	s, _ := d.attrs[name].(string)
	return s
}

// Get returns the value of an attribute.
func (d *Document) Get(name string) any {
	return d.attrs[name]
}

// Set sets the value of an attribute.
func (d *Document) Set(name string, v any) {
	d.attrs[name] = v
}

// Attributes returns a copy of every attribute, private ones included.
func (d *Document) Attributes() map[string]any {
	return maps.Clone(d.attrs)
}

// Store returns the attributes sent to the server when saving: the user
// attributes plus _key, _from and _to.
func (d *Document) Store() map[string]any {
	out := make(map[string]any, len(d.attrs))
	for k, v := range d.attrs {
		if k == "_id" || k == "_rev" {
			continue
		}
		out[k] = v
	}
	return out
}

// Validate checks the document against the field rules of its collection.
func (d *Document) Validate() error {
	return d.coll.Validate(d.attrs)
}

// IsSaved reports whether the document exists on the server.
func (d *Document) IsSaved() bool {
	return d.saved
}

// Save creates the document on the server, or replaces it if it was saved
// before. The server-assigned _id, _key and _rev are merged into the
// document and the document cache is updated.
func (d *Document) Save(ctx context.Context) error {
	if err := d.Validate(); err != nil {
		return err
	}
	tr := d.coll.db.transport
	var (
		op   string
		resp *dialect.Response
		err  error
	)
	if d.saved {
		op = "replace document " + d.ID()
		resp, err = tr.Put(ctx, d.coll.documentURL()+"/"+url.PathEscape(d.Key()), d.Store(), nil)
	} else {
		op = "create document in " + d.coll.name
		resp, err = tr.Post(ctx, d.coll.documentURL(), d.Store(), nil)
	}
	if err != nil {
		return fmt.Errorf("database: %s: %w", op, err)
	}
	if !resp.OK(http.StatusCreated, http.StatusAccepted) || resp.Body.Failed() {
		return arangox.NewCreationError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	for _, k := range []string{"_id", "_key", "_rev"} {
		if v, ok := resp.Body[k]; ok {
			d.attrs[k] = v
		}
	}
	d.saved = true
	b, err := encodeAttrs(d.attrs)
	if err != nil {
		return fmt.Errorf("database: encode %s: %w", d.ID(), err)
	}
	return d.coll.db.cache.Set(ctx, d.coll.db.cacheKey(d.coll.name, d.Key()).String(), b)
}

// String implements fmt.Stringer.
func (d *Document) String() string {
	if d.saved {
		return "Document(" + d.ID() + ")"
	}
	return "Document(" + d.coll.name + ", unsaved)"
}
