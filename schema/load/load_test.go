package load_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/syssam/arangox"
	"github.com/syssam/arangox/schema"
	"github.com/syssam/arangox/schema/edge"
	"github.com/syssam/arangox/schema/load"
)

const socialYAML = `
graphs:
  - name: social
    comment: people and what they write
    edges:
      - collection: knows
        from: [person]
        to: [person]
      - collection: wrote
        from: [person]
        to: [post]
    orphans: [tags]
  - name: tree
    edges:
      - collection: parent
        from: [node]
        to: [node]
`

func TestParse(t *testing.T) {
	t.Parallel()

	types, err := load.Parse(strings.NewReader(socialYAML))
	require.NoError(t, err)
	require.Len(t, types, 2)

	social := types[0]
	assert.Equal(t, "social", social.Name())
	assert.Equal(t, "people and what they write", social.Comment())
	assert.Equal(t, []string{"tags"}, social.OrphanCollections())
	defs := social.EdgeDefinitions()
	require.Len(t, defs, 2)
	assert.True(t, defs[0].Equal(edge.New("knows", []string{"person"}, []string{"person"})))
	assert.True(t, defs[1].Equal(edge.New("wrote", []string{"person"}, []string{"post"})))
	assert.Equal(t, "tree", types[1].Name())
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	types, err := load.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		schema bool
	}{
		{name: "no edges", input: "graphs:\n  - name: empty\n", schema: true},
		{name: "no name", input: "graphs:\n  - edges:\n      - collection: knows\n", schema: true},
		{name: "empty collection", input: "graphs:\n  - name: g\n    edges:\n      - from: [a]\n"},
		{name: "empty vertex collection", input: "graphs:\n  - name: g\n    edges:\n      - collection: e\n        from: ['']\n"},
		{name: "unknown key", input: "graphs:\n  - name: g\n    edge: []\n"},
		{name: "duplicate", input: "graphs:\n  - name: g\n    edges: [{collection: e}]\n  - name: g\n    edges: [{collection: e}]\n"},
		{name: "malformed", input: "graphs: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.schema {
				assert.True(t, arangox.IsSchemaError(err))
			}
		})
	}
}

func TestRegisterAndMarshal(t *testing.T) {
	t.Parallel()

	types, err := load.Parse(strings.NewReader(socialYAML))
	require.NoError(t, err)
	reg := schema.NewRegistry()
	require.NoError(t, load.Register(reg, types))
	assert.True(t, reg.Exists("social"))
	assert.True(t, reg.Exists("tree"))

	out, err := load.Marshal(types)
	require.NoError(t, err)
	again, err := load.Parse(strings.NewReader(string(out)))
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, types[0].OrphanCollections(), again[0].OrphanCollections())
	assert.Len(t, again[0].EdgeDefinitions(), 2)

	strict := schema.NewRegistry(schema.Strict())
	require.NoError(t, load.Register(strict, types))
	assert.True(t, arangox.IsSchemaError(load.Register(strict, types)))
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(socialYAML), 0o600))
	types, err := load.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, types, 2)

	_, err = load.ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// replace writes data to a temporary file and renames it over path.
func replace(t *testing.T, path string, data string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(data), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

type reload struct {
	types []*schema.GraphType
	err   error
}

func waitReload(t *testing.T, ch <-chan reload, pred func(reload) bool) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-ch:
			if pred(r) {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(socialYAML), 0o600))

	reg := schema.NewRegistry()
	core, logs := observer.New(zap.InfoLevel)
	w, err := load.Watch(path, reg, load.WithLogger(zap.New(core)), load.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, []string{"social", "tree"}, w.Names())
	assert.True(t, reg.Exists("social"))

	ch := make(chan reload, 16)
	w.OnReload(func(types []*schema.GraphType, err error) {
		ch <- reload{types, err}
	})
	w.Start()
	defer w.Stop()

	// Invalid file: previous registrations stay.
	replace(t, path, "graphs:\n  - name: broken\n")
	waitReload(t, ch, func(r reload) bool { return r.err != nil })
	assert.True(t, reg.Exists("social"))
	assert.True(t, reg.Exists("tree"))
	assert.False(t, reg.Exists("broken"))
	assert.NotZero(t, logs.FilterMessage("invalid schema file, keeping current graph types").Len())

	// Valid file: tree is dropped, social is replaced.
	updated := "graphs:\n  - name: social\n    edges:\n      - collection: likes\n        from: [person]\n        to: [post]\n"
	replace(t, path, updated)
	waitReload(t, ch, func(r reload) bool { return r.err == nil && len(r.types) == 1 })
	assert.False(t, reg.Exists("tree"))
	gt, err := reg.Lookup("social")
	require.NoError(t, err)
	assert.Equal(t, "likes", gt.EdgeDefinitions()[0].Collection())
	assert.Equal(t, []string{"social"}, w.Names())

	w.Stop()
	w.Stop()
}

func TestWatchInvalidInitialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graphs: [\n"), 0o600))
	_, err := load.Watch(path, schema.NewRegistry())
	require.Error(t, err)
}

func TestWatchStrictRegistryFailedReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(socialYAML), 0o600))

	reg := schema.NewRegistry(schema.Strict())
	other := schema.NewGraphType("other", []*edge.Definition{edge.New("likes", []string{"person"}, []string{"post"})})
	require.NoError(t, reg.Register(other))

	w, err := load.Watch(path, reg, load.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	ch := make(chan reload, 16)
	w.OnReload(func(types []*schema.GraphType, err error) {
		ch <- reload{types, err}
	})
	w.Start()
	defer w.Stop()

	// "other" is registered outside the file, so the whole reload is refused.
	replace(t, path, "graphs:\n  - name: other\n    edges:\n      - collection: knows\n        from: [person]\n        to: [person]\n")
	var failed error
	waitReload(t, ch, func(r reload) bool {
		failed = r.err
		return r.err != nil
	})
	assert.True(t, arangox.IsSchemaError(failed))
	assert.True(t, reg.Exists("social"))
	assert.True(t, reg.Exists("tree"))
	gt, err := reg.Lookup("other")
	require.NoError(t, err)
	assert.Same(t, other, gt)
	assert.Equal(t, []string{"social", "tree"}, w.Names())
}
