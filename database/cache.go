package database

import (
	"bytes"
	"context"
	"maps"
	"math"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/arangox"
)

// MemoryCache is an in-memory arangox.Cache.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ arangox.Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]byte)}
}

// Get implements arangox.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[key], nil
}

// Set implements arangox.Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

// Delete implements arangox.Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// DeletePrefix implements arangox.Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.DeleteFunc(c.items, func(k string, _ []byte) bool {
		return strings.HasPrefix(k, prefix)
	})
	return nil
}

// Len returns the number of cached values.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func encodeAttrs(attrs map[string]any) ([]byte, error) {
	return msgpack.Marshal(attrs)
}

// decodeAttrs decodes integers as int64 and floats as float64. Unsigned
// integers above math.MaxInt64 stay uint64.
func decodeAttrs(b []byte) (map[string]any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		return nil, err
	}
	for k, v := range attrs {
		attrs[k] = signed(v)
	}
	return attrs, nil
}

// signed converts the uint64 values msgpack uses for positive integers.
func signed(v any) any {
	switch v := v.(type) {
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
	case map[string]any:
		for k, e := range v {
			v[k] = signed(e)
		}
	case []any:
		for i, e := range v {
			v[i] = signed(e)
		}
	}
	return v
}
