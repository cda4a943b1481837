package graph

import (
	"context"
	"fmt"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/database"
)

// EndpointKind tells how an Endpoint designates its document.
type EndpointKind uint8

// Endpoint kinds.
const (
	Identifier EndpointKind = iota
	UnsavedDocument
	SavedDocument
)

// String implements fmt.Stringer.
func (k EndpointKind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	case UnsavedDocument:
		return "unsaved document"
	case SavedDocument:
		return "saved document"
	}
	return fmt.Sprintf("EndpointKind(%d)", k)
}

// Endpoint designates a vertex, either by identifier or by document.
type Endpoint struct {
	id  string
	doc *database.Document
}

// ID returns an endpoint designating the document with the given identifier.
func ID(id string) Endpoint {
	return Endpoint{id: id}
}

// Doc returns an endpoint designating d. Unsaved documents are saved by
// Link before the edge is created.
func Doc(d *database.Document) Endpoint {
	return Endpoint{doc: d}
}

// Kind returns the kind of the endpoint.
func (e Endpoint) Kind() EndpointKind {
	switch {
	case e.doc == nil:
		return Identifier
	case e.doc.IsSaved():
		return SavedDocument
	}
	return UnsavedDocument
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	if e.doc != nil {
		return e.doc.String()
	}
	return e.id
}

// resolve returns the document identifier of e. Unsaved documents are saved
// first when save is set and rejected otherwise.
func (e Endpoint) resolve(ctx context.Context, arg string, save bool) (string, error) {
	switch e.Kind() {
	case Identifier:
		return e.id, nil
	case UnsavedDocument:
		if !save {
			return "", arangox.NewInvalidArgumentError(arg, "document is not saved")
		}
		if err := e.doc.Save(ctx); err != nil {
			return "", err
		}
	}
	return e.doc.ID(), nil
}
