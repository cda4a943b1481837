package database

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/dialect"
	"github.com/syssam/arangox/schema/field"
)

// CollectionKind is the server-side type of a collection.
type CollectionKind int

// Collection kinds, as reported by the server.
const (
	DocumentCollection CollectionKind = 2
	EdgeCollection     CollectionKind = 3
)

// String implements fmt.Stringer.
func (k CollectionKind) String() string {
	switch k {
	case DocumentCollection:
		return "document"
	case EdgeCollection:
		return "edge"
	}
	return fmt.Sprintf("CollectionKind(%d)", int(k))
}

// Database is a handle on a single database of the server.
// It knows the collections of the database and caches documents by key.
type Database struct {
	server    string
	name      string
	transport dialect.Transport
	logger    *zap.Logger
	verbose   bool
	cache     arangox.Cache

	mu          sync.RWMutex
	collections map[string]*Collection
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(db *Database) {
		db.logger = l
	}
}

// WithVerbose makes graph reconciliation log what it merged from the server.
func WithVerbose(verbose bool) Option {
	return func(db *Database) {
		db.verbose = verbose
	}
}

// WithCache sets the document cache. The default is an in-memory cache.
func WithCache(c arangox.Cache) Option {
	return func(db *Database) {
		db.cache = c
	}
}

// New returns a handle on database name of the server at serverURL.
// No request is made; call Reload to learn the server's collections.
func New(serverURL, name string, tr dialect.Transport, opts ...Option) *Database {
	db := &Database{
		server:      strings.TrimRight(serverURL, "/"),
		name:        name,
		transport:   tr,
		logger:      zap.NewNop(),
		collections: make(map[string]*Collection),
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.cache == nil {
		db.cache = NewMemoryCache()
	}
	return db
}

// Name returns the database name.
func (db *Database) Name() string {
	return db.name
}

// URL returns the API root of the database.
func (db *Database) URL() string {
	return db.server + "/_db/" + url.PathEscape(db.name) + "/_api"
}

// GraphsURL returns the root of the graph API of the database.
func (db *Database) GraphsURL() string {
	return db.URL() + "/gharial"
}

// Transport returns the transport used for every request.
func (db *Database) Transport() dialect.Transport {
	return db.transport
}

// Logger returns the database logger.
func (db *Database) Logger() *zap.Logger {
	return db.logger
}

// Verbose reports whether verbose logging is enabled.
func (db *Database) Verbose() bool {
	return db.verbose
}

// Cache returns the document cache.
func (db *Database) Cache() arangox.Cache {
	return db.cache
}

// Collection returns the collection called name.
func (db *Database) Collection(name string) (*Collection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	c, ok := db.collections[name]
	if !ok {
		return nil, arangox.NewNotFoundError("collection", name)
	}
	return c, nil
}

// Collections returns the known collections sorted by name.
func (db *Database) Collections() []*Collection {
	db.mu.RLock()
	defer db.mu.RUnlock()
	cs := make([]*Collection, 0, len(db.collections))
	for _, c := range db.collections {
		cs = append(cs, c)
	}
	slices.SortFunc(cs, func(a, b *Collection) int {
		return strings.Compare(a.name, b.name)
	})
	return cs
}

// IsEdgeCollection reports whether name is a known edge collection.
func (db *Database) IsEdgeCollection(name string) bool {
	c, err := db.Collection(name)
	return err == nil && c.kind == EdgeCollection
}

// Declare registers a collection with the given kind and field rules,
// replacing any previous rules of the collection. Declared collections
// survive Reload even when the server does not report them.
func (db *Database) Declare(name string, kind CollectionKind, fields ...*field.Field) *Collection {
	descs := make([]*field.Descriptor, len(fields))
	for i, f := range fields {
		descs[i] = f.Descriptor()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	c := &Collection{db: db, name: name, kind: kind, fields: descs, declared: true}
	db.collections[name] = c
	return c
}

// Reload lists the collections of the database. Field rules of declared
// collections are kept; the server decides the kind of every collection it
// reports. Cached documents of collections that are gone are evicted.
func (db *Database) Reload(ctx context.Context) error {
	resp, err := db.transport.Get(ctx, db.URL()+"/collection", url.Values{"excludeSystem": {"true"}})
	if err != nil {
		return fmt.Errorf("database: list collections: %w", err)
	}
	if resp.StatusCode != http.StatusOK || resp.Body.Failed() {
		return fmt.Errorf("database: list collections: status %d: %s", resp.StatusCode, resp.Body.ErrorMessage())
	}

	dropped, count := db.replaceCollections(resp.Body.List("result"))
	for _, name := range dropped {
		prefix := db.cacheKey(name, "").Prefix()
		if err := db.cache.DeletePrefix(ctx, prefix); err != nil {
			return fmt.Errorf("database: evict documents of %s: %w", name, err)
		}
	}
	db.logger.Debug("collections loaded",
		zap.String("database", db.name),
		zap.Int("count", count),
		zap.Strings("dropped", dropped))
	return nil
}

// replaceCollections installs the collections listed by the server and
// returns the names of the previously known collections that are gone.
func (db *Database) replaceCollections(items []any) ([]string, int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	next := make(map[string]*Collection)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		info := dialect.Envelope(obj)
		name := info.String("name")
		if name == "" {
			continue
		}
		kind := DocumentCollection
		if t, ok := info["type"].(float64); ok && CollectionKind(t) == EdgeCollection {
			kind = EdgeCollection
		}
		c := &Collection{db: db, name: name, kind: kind}
		if prev, ok := db.collections[name]; ok {
			c.fields = prev.fields
			c.declared = prev.declared
		}
		next[name] = c
	}
	for name, c := range db.collections {
		if _, ok := next[name]; !ok && c.declared {
			next[name] = c
		}
	}
	var dropped []string
	for name := range db.collections {
		if _, ok := next[name]; !ok {
			dropped = append(dropped, name)
		}
	}
	slices.Sort(dropped)
	db.collections = next
	return dropped, len(next)
}

func (db *Database) cacheKey(collection, key string) arangox.CacheKey {
	return arangox.CacheKey{Database: db.name, Collection: collection, Key: key}
}

// Forget evicts the document with the given id from the cache.
func (db *Database) Forget(ctx context.Context, id string) error {
	collection, key, ok := arangox.SplitID(id)
	if !ok {
		return arangox.NewInvalidArgumentError("id", fmt.Sprintf("%q is not a document id", id))
	}
	return db.cache.Delete(ctx, db.cacheKey(collection, key).String())
}
