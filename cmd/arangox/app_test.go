package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/config"
	"github.com/syssam/arangox/dialect"
	"github.com/syssam/arangox/dialect/dialecttest"
	"github.com/syssam/arangox/schema"
)

const schemaYAML = `
graphs:
  - name: social
    edges:
      - collection: knows
        from: [person]
        to: [person]
    orphans: [tags]
`

func graphBody(key, rev, edgeColl, vertexColl string, orphans ...string) dialect.Envelope {
	o := make([]any, 0, len(orphans))
	for _, name := range orphans {
		o = append(o, name)
	}
	return dialect.Envelope{
		"error": false,
		"graph": map[string]any{
			"_key": key,
			"_id":  "_graphs/" + key,
			"_rev": rev,
			"name": key,
			"edgeDefinitions": []any{
				map[string]any{"collection": edgeColl, "from": []any{vertexColl}, "to": []any{vertexColl}},
			},
			"orphanCollections": o,
		},
	}
}

// server answers like a database holding the social and tree graphs.
func server(call dialecttest.Call) (*dialect.Response, error) {
	reply := func(status int, body dialect.Envelope) (*dialect.Response, error) {
		return &dialect.Response{StatusCode: status, Body: body}, nil
	}
	switch {
	case strings.HasSuffix(call.URL, "/_api/collection"):
		return reply(http.StatusOK, dialect.Envelope{"error": false, "result": []any{
			map[string]any{"name": "person", "type": float64(2)},
			map[string]any{"name": "tags", "type": float64(2)},
			map[string]any{"name": "knows", "type": float64(3)},
			map[string]any{"name": "node", "type": float64(2)},
			map[string]any{"name": "parent", "type": float64(3)},
		}})
	case call.Method == http.MethodGet && strings.HasSuffix(call.URL, "/gharial/social"):
		return reply(http.StatusOK, graphBody("social", "r1", "knows", "person", "tags"))
	case call.Method == http.MethodGet && strings.HasSuffix(call.URL, "/gharial/tree"):
		return reply(http.StatusOK, graphBody("tree", "r2", "parent", "node"))
	case call.Method == http.MethodPost && strings.HasSuffix(call.URL, "/gharial"):
		return reply(http.StatusAccepted, graphBody(call.Body.String("name"), "r3", "knows", "person", "tags"))
	case call.Method == http.MethodPost && strings.HasSuffix(call.URL, "/traversal"):
		return reply(http.StatusOK, dialect.Envelope{"error": false, "result": map[string]any{
			"visited": map[string]any{"vertices": []any{map[string]any{"_id": call.Body.String("startVertex")}}},
		}})
	}
	return reply(http.StatusNotFound, dialect.Envelope{"error": true, "errorNum": float64(1924), "errorMessage": "not found"})
}

func newTestApp(t *testing.T) (*app, *bytes.Buffer, *dialecttest.Transport) {
	t.Helper()
	var out bytes.Buffer
	tr := dialecttest.New().Handle(server)
	a := &app{
		cfg: &config.Config{
			URL:         "http://arango:8529",
			Database:    "main",
			LogLevel:    "info",
			Environment: "test",
		},
		logger:    zap.NewNop(),
		out:       &out,
		transport: tr,
	}
	return a, &out, tr
}

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaYAML), 0o600))
	return path
}

func TestInspect(t *testing.T) {
	t.Parallel()

	a, out, _ := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "inspect", "social", "tree"})
	require.NoError(t, err)
	assert.Equal(t, "social (undeclared, rev r1)\n"+
		"  knows: [person] -> [person]\n"+
		"  orphans: tags\n"+
		"tree (undeclared, rev r2)\n"+
		"  parent: [node] -> [node]\n", out.String())
}

func TestInspectDeclared(t *testing.T) {
	t.Parallel()

	a, out, _ := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "--schema", writeSchema(t), "inspect", "social"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "social (type social, rev r1)")
}

func TestInspectMissingGraph(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "inspect", "social", "nope"})
	require.Error(t, err)
	assert.True(t, arangox.IsNotFound(err))
}

func TestInspectRequiresName(t *testing.T) {
	t.Parallel()

	a, _, tr := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "inspect"})
	require.Error(t, err)
	assert.Empty(t, tr.Calls())
}

func TestCreate(t *testing.T) {
	t.Parallel()

	a, out, tr := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "-s", writeSchema(t), "create", "social", "people"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "people (type social, rev r3)")

	var posted *dialecttest.Call
	for _, c := range tr.Calls() {
		if c.Method == http.MethodPost {
			posted = &c
		}
	}
	require.NotNil(t, posted)
	assert.Equal(t, "http://arango:8529/_db/main/_api/gharial", posted.URL)
	assert.Equal(t, "people", posted.Body.String("name"))
	assert.Equal(t, []any{"tags"}, posted.Body.List("orphanCollections"))
}

func TestCreateUnknownType(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "create", "social", "people"})
	require.Error(t, err)
	assert.True(t, arangox.IsNotFound(err))
}

func TestTraverse(t *testing.T) {
	t.Parallel()

	a, out, tr := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{
		"arangox", "traverse", "--direction", "any", "--max-depth", "2", "social", "person/alice",
	})
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Contains(t, result, "visited")

	calls := tr.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "http://arango:8529/_db/main/_api/traversal", last.URL)
	assert.Equal(t, "person/alice", last.Body.String("startVertex"))
	assert.Equal(t, "social", last.Body.String("graphName"))
	assert.Equal(t, "any", last.Body.String("direction"))
	assert.Equal(t, float64(2), last.Body["maxDepth"])
}

func TestTraverseInvalidDirection(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{
		"arangox", "traverse", "--direction", "sideways", "social", "person/alice",
	})
	require.Error(t, err)
	assert.True(t, arangox.IsInvalidArgument(err))
}

func TestSchemaCheck(t *testing.T) {
	t.Parallel()

	a, out, tr := newTestApp(t)
	err := newCommand(a).Run(context.Background(), []string{"arangox", "schema", "check", writeSchema(t)})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "name: social")
	assert.Contains(t, out.String(), "collection: knows")
	assert.Empty(t, tr.Calls())

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("graphs:\n  - name: empty\n"), 0o600))
	err = newCommand(a).Run(context.Background(), []string{"arangox", "schema", "check", bad})
	assert.True(t, arangox.IsSchemaError(err))
}

func TestSetupFlags(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestApp(t)
	a.reg = schema.NewRegistry()
	err := newCommand(a).Run(context.Background(), []string{"arangox", "-d", "other", "-v", "schema", "check", writeSchema(t)})
	require.NoError(t, err)
	assert.Equal(t, "other", a.cfg.Database)
	assert.True(t, a.cfg.Verbose)
}
