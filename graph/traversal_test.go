package graph_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/dialect"
	"github.com/syssam/arangox/dialect/dialecttest"
	"github.com/syssam/arangox/graph"
)

func TestTraverseInvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start graph.Endpoint
		opts  graph.Traversal
	}{
		{name: "neither", start: graph.ID("person/a"), opts: graph.Traversal{MaxDepth: 2}},
		{name: "both", start: graph.ID("person/a"), opts: graph.Traversal{Direction: graph.Any, Expander: "return [];"}},
		{name: "unknown direction", start: graph.ID("person/a"), opts: graph.Traversal{Direction: "sideways"}},
		{name: "reserved extra", start: graph.ID("person/a"), opts: graph.Traversal{Direction: graph.Any, Extra: map[string]any{"expander": "x"}}},
		{name: "empty start", start: graph.ID(""), opts: graph.Traversal{Direction: graph.Any}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := dialecttest.New()
			g, _ := newGraph(t, tr)
			_, err := g.Traverse(context.Background(), tt.start, tt.opts)
			require.Error(t, err)
			assert.True(t, arangox.IsInvalidArgument(err))
			assert.Empty(t, tr.Calls())
		})
	}
}

func TestTraverse(t *testing.T) {
	t.Parallel()

	result := map[string]any{
		"visited": map[string]any{
			"vertices": []any{map[string]any{"_id": "person/a"}},
			"paths":    []any{},
		},
	}
	tr := dialecttest.New().Respond(http.StatusOK, dialect.Envelope{"error": false, "code": float64(200), "result": result})
	g, db := newGraph(t, tr)

	got, err := g.Traverse(context.Background(), graph.ID("person/a"), graph.Traversal{
		Direction:  graph.Outbound,
		MinDepth:   1,
		MaxDepth:   3,
		Strategy:   "breadthfirst",
		Uniqueness: map[string]string{"vertices": "global"},
		Extra:      map[string]any{"limit": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, result, got)

	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "POST", calls[0].Method)
	assert.Equal(t, db.URL()+"/traversal", calls[0].URL)
	assert.Equal(t, dialect.Envelope{
		"startVertex": "person/a",
		"graphName":   "social",
		"direction":   "outbound",
		"minDepth":    float64(1),
		"maxDepth":    float64(3),
		"strategy":    "breadthfirst",
		"uniqueness":  map[string]any{"vertices": "global"},
		"limit":       float64(10),
	}, calls[0].Body)
}

func TestTraverseExpander(t *testing.T) {
	t.Parallel()

	tr := dialecttest.New().
		Respond(http.StatusCreated, dialect.Envelope{"vertex": map[string]any{"_key": "a"}}).
		Respond(http.StatusOK, dialect.Envelope{"result": []any{}})
	g, _ := newGraph(t, tr)
	ctx := context.Background()

	alice, err := g.CreateVertex(ctx, "person", map[string]any{"name": "alice"})
	require.NoError(t, err)
	_, err = g.Traverse(ctx, graph.Doc(alice), graph.Traversal{Expander: "return [];"})
	require.NoError(t, err)

	body := tr.Calls()[1].Body
	assert.Equal(t, "person/a", body["startVertex"])
	assert.Equal(t, "return [];", body["expander"])
	assert.NotContains(t, body, "direction")
}

func TestTraverseRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   dialect.Envelope
	}{
		{name: "status", status: http.StatusNotFound, body: dialect.Envelope{"error": true, "errorMessage": "invalid startVertex"}},
		{name: "error flag", status: http.StatusOK, body: dialect.Envelope{"error": true, "errorMessage": "too many iterations"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := dialecttest.New().Respond(tt.status, tt.body)
			g, _ := newGraph(t, tr)
			_, err := g.Traverse(context.Background(), graph.ID("person/a"), graph.Traversal{Direction: graph.Inbound})
			require.Error(t, err)
			var te *arangox.TraversalError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.status, te.Status)
			assert.Equal(t, tt.body.ErrorMessage(), te.Message)
			assert.Equal(t, map[string]any(tt.body), te.Payload)
		})
	}
}

func TestEndpointKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, graph.Identifier, graph.ID("person/a").Kind())
	assert.Equal(t, "person/a", graph.ID("person/a").String())
	assert.Equal(t, "identifier", graph.Identifier.String())
	assert.Equal(t, "unsaved document", graph.UnsavedDocument.String())
	assert.Equal(t, "saved document", graph.SavedDocument.String())
}
