package graph

import (
	"context"
	"fmt"
	"net/http"

	"github.com/syssam/arangox"
)

// Direction is the direction followed by the default expander.
type Direction string

// Traversal directions.
const (
	Outbound Direction = "outbound"
	Inbound  Direction = "inbound"
	Any      Direction = "any"
)

// Traversal holds the options of a server-side traversal. Exactly one of
// Direction and Expander must be set. Zero values are not sent.
type Traversal struct {
	Direction Direction
	// Expander is a server-evaluated function returning the connections
	// to follow from a vertex.
	Expander      string
	Filter        string
	MinDepth      int
	MaxDepth      int
	Visitor       string
	Init          string
	Strategy      string // "depthfirst" or "breadthfirst"
	Order         string // "preorder", "postorder" or "preorder-expander"
	ItemOrder     string // "forward" or "backward"
	Uniqueness    map[string]string
	MaxIterations int
	Sort          string
	// Extra holds options sent as is.
	Extra map[string]any
}

var reserved = map[string]bool{
	"startVertex": true,
	"graphName":   true,
	"direction":   true,
	"expander":    true,
}

// validate checks the expansion options.
func (t *Traversal) validate() error {
	switch {
	case t.Direction != "" && t.Expander != "":
		return arangox.NewInvalidArgumentError("direction", "direction and expander are mutually exclusive")
	case t.Direction == "" && t.Expander == "":
		return arangox.NewInvalidArgumentError("direction", "one of direction or expander is required")
	}
	switch t.Direction {
	case "", Outbound, Inbound, Any:
	default:
		return arangox.NewInvalidArgumentError("direction", fmt.Sprintf("unknown direction %q", t.Direction))
	}
	for k := range t.Extra {
		if reserved[k] {
			return arangox.NewInvalidArgumentError("extra", fmt.Sprintf("option %q cannot be set through Extra", k))
		}
	}
	return nil
}

func (t *Traversal) payload(start, graph string) map[string]any {
	p := make(map[string]any, len(t.Extra)+4)
	for k, v := range t.Extra {
		p[k] = v
	}
	set := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	setInt := func(k string, v int) {
		if v != 0 {
			p[k] = v
		}
	}
	p["startVertex"] = start
	p["graphName"] = graph
	set("direction", string(t.Direction))
	set("expander", t.Expander)
	set("filter", t.Filter)
	setInt("minDepth", t.MinDepth)
	setInt("maxDepth", t.MaxDepth)
	set("visitor", t.Visitor)
	set("init", t.Init)
	set("strategy", t.Strategy)
	set("order", t.Order)
	set("itemOrder", t.ItemOrder)
	if len(t.Uniqueness) > 0 {
		p["uniqueness"] = t.Uniqueness
	}
	setInt("maxIterations", t.MaxIterations)
	set("sort", t.Sort)
	return p
}

// Traverse runs a traversal of the graph on the server, starting at start,
// and returns the result object of the response. The options are checked
// before any request is made.
func (g *Graph) Traverse(ctx context.Context, start Endpoint, opts Traversal) (any, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	id, err := start.resolve(ctx, "start", false)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, arangox.NewInvalidArgumentError("start", "empty document id")
	}
	op := "traverse " + g.key + " from " + id
	resp, err := g.db.Transport().Post(ctx, g.db.URL()+"/traversal", opts.payload(id, g.key), nil)
	if err != nil {
		return nil, fmt.Errorf("graph: %s: %w", op, err)
	}
	if !resp.InRange(http.StatusOK, http.StatusAccepted) || resp.Body.Failed() {
		return nil, arangox.NewTraversalError(op, resp.Body.ErrorMessage(), resp.StatusCode, resp.Body)
	}
	return resp.Body["result"], nil
}
