package arangox

import (
	"context"
	"strings"
)

// Cache is the interface for caching documents by key.
// Users may implement this interface with their preferred caching solution
// (e.g., Redis, Memcached); the database package ships an in-memory one.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CacheKey identifies a cached document.
type CacheKey struct {
	Database   string
	Collection string
	Key        string
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Database + ":" + k.Collection + "/" + k.Key
}

// Prefix returns the key prefix shared by every document of the collection.
func (k CacheKey) Prefix() string {
	return k.Database + ":" + k.Collection + "/"
}

// SplitID splits a document identifier of the form "collection/key".
// ok is false if id is not of that form.
func SplitID(id string) (collection, key string, ok bool) {
	collection, key, ok = strings.Cut(id, "/")
	if !ok || collection == "" || key == "" || strings.Contains(key, "/") {
		return "", "", false
	}
	return collection, key, true
}
