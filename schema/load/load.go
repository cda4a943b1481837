package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/arangox/schema"
	"github.com/syssam/arangox/schema/edge"
)

// File is the document layout of a declaration file.
type File struct {
	Graphs []Graph `yaml:"graphs"`
}

// Graph is the declaration of one graph type.
type Graph struct {
	Name    string        `yaml:"name"`
	Comment string        `yaml:"comment,omitempty"`
	Edges   []edge.Record `yaml:"edges"`
	Orphans []string      `yaml:"orphans,omitempty"`
}

// GraphType converts the declaration.
func (g Graph) GraphType() *schema.GraphType {
	b := schema.Define(g.Name).Orphans(g.Orphans...).Comment(g.Comment)
	for _, r := range g.Edges {
		b.Edges(edge.Collection(r.Collection).From(r.From...).To(r.To...))
	}
	return b.GraphType()
}

// Parse decodes declarations and checks every graph type they contain.
// Unknown keys are rejected.
func Parse(r io.Reader) ([]*schema.GraphType, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("load: decode: %w", err)
	}
	types := make([]*schema.GraphType, 0, len(f.Graphs))
	seen := make(map[string]bool, len(f.Graphs))
	for i, g := range f.Graphs {
		for _, r := range g.Edges {
			if err := edge.Collection(r.Collection).From(r.From...).To(r.To...).Err(); err != nil {
				return nil, fmt.Errorf("load: graph %d (%s): %w", i, g.Name, err)
			}
		}
		gt := g.GraphType()
		if err := schema.Check(gt); err != nil {
			return nil, err
		}
		if seen[gt.Name()] {
			return nil, fmt.Errorf("load: graph type %q is declared twice", gt.Name())
		}
		seen[gt.Name()] = true
		types = append(types, gt)
	}
	return types, nil
}

// ParseFile reads and parses the declaration file at path.
func ParseFile(path string) ([]*schema.GraphType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Register registers types in reg. It stops at the first failure.
func Register(reg *schema.Registry, types []*schema.GraphType) error {
	for _, gt := range types {
		if err := reg.Register(gt); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes graph types in the declaration file layout.
func Marshal(types []*schema.GraphType) ([]byte, error) {
	f := File{Graphs: make([]Graph, len(types))}
	for i, gt := range types {
		g := Graph{
			Name:    gt.Name(),
			Comment: gt.Comment(),
			Orphans: gt.OrphanCollections(),
		}
		for _, d := range gt.EdgeDefinitions() {
			g.Edges = append(g.Edges, d.Record())
		}
		f.Graphs[i] = g
	}
	return yaml.Marshal(f)
}
