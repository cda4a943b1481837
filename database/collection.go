package database

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"

	"go.uber.org/zap"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/schema/field"
)

// Collection is a document or edge collection of a database.
type Collection struct {
	db       *Database
	name     string
	kind     CollectionKind
	fields   []*field.Descriptor
	declared bool
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Kind returns the collection kind.
func (c *Collection) Kind() CollectionKind {
	return c.kind
}

// IsEdge reports whether c is an edge collection.
func (c *Collection) IsEdge() bool {
	return c.kind == EdgeCollection
}

// Database returns the database of the collection.
func (c *Collection) Database() *Database {
	return c.db
}

// Fields returns the field rules of the collection.
func (c *Collection) Fields() []*field.Descriptor {
	return slices.Clone(c.fields)
}

// Validate checks attrs against the field rules of the collection.
func (c *Collection) Validate(attrs map[string]any) error {
	return field.Validate(c.fields, attrs)
}

// ValidatePrivate checks a single server-managed attribute such as _from.
func (c *Collection) ValidatePrivate(name string, v any) error {
	return field.ValidatePrivate(name, v)
}

// NewDocument returns an unsaved document of the collection.
func (c *Collection) NewDocument(attrs map[string]any) *Document {
	return &Document{coll: c, attrs: cloneAttrs(attrs)}
}

// NewEdge returns an unsaved edge document connecting from and to.
func (c *Collection) NewEdge(from, to string, attrs map[string]any) *Document {
	d := c.NewDocument(attrs)
	d.attrs["_from"] = from
	d.attrs["_to"] = to
	return d
}

// Document returns the document stored under key. The document cache is
// consulted first.
func (c *Collection) Document(ctx context.Context, key string) (*Document, error) {
	ck := c.db.cacheKey(c.name, key).String()
	b, err := c.db.cache.Get(ctx, ck)
	if err != nil {
		return nil, fmt.Errorf("database: cache get %s: %w", ck, err)
	}
	if b != nil {
		attrs, err := decodeAttrs(b)
		if err != nil {
			return nil, fmt.Errorf("database: decode cached %s: %w", ck, err)
		}
		return &Document{coll: c, attrs: attrs, saved: true}, nil
	}

	resp, err := c.db.transport.Get(ctx, c.db.URL()+"/document/"+url.PathEscape(c.name)+"/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, fmt.Errorf("database: get document %s/%s: %w", c.name, key, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, arangox.NewNotFoundError("document", c.name+"/"+key)
	case resp.StatusCode != http.StatusOK, resp.Body.Failed():
		return nil, fmt.Errorf("database: get document %s/%s: status %d: %s", c.name, key, resp.StatusCode, resp.Body.ErrorMessage())
	}
	return c.Remember(ctx, resp.Body)
}

// Remember stores attrs, the full content of a saved document, in the
// document cache and returns the document read back from the cache.
func (c *Collection) Remember(ctx context.Context, attrs map[string]any) (*Document, error) {
	key, _ := attrs["_key"].(string)
	if key == "" {
		return nil, arangox.NewInvalidArgumentError("_key", "document has no key")
	}
	b, err := encodeAttrs(attrs)
	if err != nil {
		return nil, fmt.Errorf("database: encode %s/%s: %w", c.name, key, err)
	}
	if err := c.db.cache.Set(ctx, c.db.cacheKey(c.name, key).String(), b); err != nil {
		return nil, fmt.Errorf("database: cache set %s/%s: %w", c.name, key, err)
	}
	return c.Document(ctx, key)
}

// FetchByExample returns every document of the collection matching example.
// Results are read in batches of batchSize until the server cursor is
// exhausted.
func (c *Collection) FetchByExample(ctx context.Context, example map[string]any, batchSize int) ([]*Document, error) {
	if batchSize <= 0 {
		return nil, arangox.NewInvalidArgumentError("batchSize", "must be positive")
	}
	body := map[string]any{
		"collection": c.name,
		"example":    example,
		"batchSize":  batchSize,
	}
	resp, err := c.db.transport.Put(ctx, c.db.URL()+"/simple/by-example", body, nil)
	if err != nil {
		return nil, fmt.Errorf("database: fetch %s by example: %w", c.name, err)
	}
	var docs []*Document
	for {
		if !resp.OK(http.StatusOK, http.StatusCreated) || resp.Body.Failed() {
			return nil, fmt.Errorf("database: fetch %s by example: status %d: %s", c.name, resp.StatusCode, resp.Body.ErrorMessage())
		}
		for _, item := range resp.Body.List("result") {
			if attrs, ok := item.(map[string]any); ok {
				docs = append(docs, &Document{coll: c, attrs: attrs, saved: true})
			}
		}
		if !resp.Body.Bool("hasMore") {
			break
		}
		id := resp.Body.String("id")
		c.db.logger.Debug("continuing cursor",
			zap.String("collection", c.name),
			zap.String("cursor", id),
			zap.Int("fetched", len(docs)))
		resp, err = c.db.transport.Put(ctx, c.db.URL()+"/cursor/"+url.PathEscape(id), nil, nil)
		if err != nil {
			return nil, fmt.Errorf("database: read cursor %s: %w", id, err)
		}
	}
	return docs, nil
}

func (c *Collection) documentURL() string {
	return c.db.URL() + "/document/" + url.PathEscape(c.name)
}

func cloneAttrs(attrs map[string]any) map[string]any {
	if attrs == nil {
		return make(map[string]any)
	}
	return maps.Clone(attrs)
}
