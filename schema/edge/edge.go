package edge

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Definition describes one edge collection of a graph and the vertex
// collections its edges may connect.
type Definition struct {
	collection string
	from       []string
	to         []string
}

// New returns a definition for the given edge collection.
func New(collection string, from, to []string) *Definition {
	return &Definition{
		collection: collection,
		from:       normalize(from),
		to:         normalize(to),
	}
}

// Collection returns the edge collection name. It is also the key of the
// definition.
func (d *Definition) Collection() string {
	return d.collection
}

// From returns the collections edges may originate from.
func (d *Definition) From() []string {
	return slices.Clone(d.from)
}

// To returns the collections edges may point to.
func (d *Definition) To() []string {
	return slices.Clone(d.to)
}

// Connects reports whether an edge from a vertex of collection from to a
// vertex of collection to is allowed by the definition.
func (d *Definition) Connects(from, to string) bool {
	_, okFrom := slices.BinarySearch(d.from, from)
	_, okTo := slices.BinarySearch(d.to, to)
	return okFrom && okTo
}

// Equal reports whether both definitions describe the same collection with
// the same from and to sets.
func (d *Definition) Equal(other *Definition) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.collection == other.collection &&
		slices.Equal(d.from, other.from) &&
		slices.Equal(d.to, other.to)
}

// Record returns the wire form of the definition.
func (d *Definition) Record() Record {
	return Record{
		Collection: d.collection,
		From:       d.From(),
		To:         d.To(),
	}
}

// MarshalJSON implements json.Marshaler.
func (d *Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Record())
}

// String implements fmt.Stringer.
func (d *Definition) String() string {
	return fmt.Sprintf("%s: %v -> %v", d.collection, d.from, d.to)
}

// Record is the wire form of an edge definition.
type Record struct {
	Collection string   `json:"collection" yaml:"collection"`
	From       []string `json:"from" yaml:"from"`
	To         []string `json:"to" yaml:"to"`
}

// Definition converts the record into a Definition.
func (r Record) Definition() *Definition {
	return New(r.Collection, r.From, r.To)
}

// Builder is a fluent builder for definitions.
type Builder struct {
	collection string
	from       []string
	to         []string
}

// Collection starts a definition for the given edge collection.
func Collection(name string) *Builder {
	return &Builder{collection: name}
}

// From adds collections edges may originate from.
func (b *Builder) From(collections ...string) *Builder {
	b.from = append(b.from, collections...)
	return b
}

// To adds collections edges may point to.
func (b *Builder) To(collections ...string) *Builder {
	b.to = append(b.to, collections...)
	return b
}

// Err returns the first problem found in the declaration, if any.
func (b *Builder) Err() error {
	if b.collection == "" {
		return errors.New("edge collection name is empty")
	}
	for _, c := range slices.Concat(b.from, b.to) {
		if c == "" {
			return fmt.Errorf("edge collection %q references an empty vertex collection name", b.collection)
		}
	}
	return nil
}

// Definition returns the immutable definition.
func (b *Builder) Definition() *Definition {
	return New(b.collection, b.from, b.to)
}

// normalize returns a sorted copy of names without duplicates.
func normalize(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}
