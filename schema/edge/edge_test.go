package edge_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/arangox/schema/edge"
)

// TestBuilder tests the edge.Collection builder with various configurations.
func TestBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func() *edge.Builder
		validate func(t *testing.T, b *edge.Builder)
	}{
		{
			name: "single_collections",
			build: func() *edge.Builder {
				return edge.Collection("knows").From("person").To("person")
			},
			validate: func(t *testing.T, b *edge.Builder) {
				require.NoError(t, b.Err())
				d := b.Definition()
				assert.Equal(t, "knows", d.Collection())
				assert.Equal(t, []string{"person"}, d.From())
				assert.Equal(t, []string{"person"}, d.To())
			},
		},
		{
			name: "sorted_and_deduplicated",
			build: func() *edge.Builder {
				return edge.Collection("tagged").From("post", "comment", "post").To("tag").To("tag")
			},
			validate: func(t *testing.T, b *edge.Builder) {
				d := b.Definition()
				assert.Equal(t, []string{"comment", "post"}, d.From())
				assert.Equal(t, []string{"tag"}, d.To())
			},
		},
		{
			name: "empty_collection_name",
			build: func() *edge.Builder {
				return edge.Collection("").From("person").To("person")
			},
			validate: func(t *testing.T, b *edge.Builder) {
				assert.EqualError(t, b.Err(), "edge collection name is empty")
			},
		},
		{
			name: "empty_vertex_collection",
			build: func() *edge.Builder {
				return edge.Collection("knows").From("").To("person")
			},
			validate: func(t *testing.T, b *edge.Builder) {
				assert.Error(t, b.Err())
			},
		},
		{
			name: "no_vertex_collections",
			build: func() *edge.Builder {
				return edge.Collection("knows")
			},
			validate: func(t *testing.T, b *edge.Builder) {
				require.NoError(t, b.Err())
				d := b.Definition()
				assert.Empty(t, d.From())
				assert.Empty(t, d.To())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.validate(t, tt.build())
		})
	}
}

func TestDefinitionImmutable(t *testing.T) {
	t.Parallel()

	from := []string{"person"}
	d := edge.New("knows", from, []string{"person"})
	from[0] = "robot"
	assert.Equal(t, []string{"person"}, d.From())

	got := d.To()
	got[0] = "robot"
	assert.Equal(t, []string{"person"}, d.To())
}

func TestDefinitionEqual(t *testing.T) {
	t.Parallel()

	a := edge.New("knows", []string{"person"}, []string{"person"})
	b := edge.Collection("knows").From("person").To("person").Definition()
	c := edge.New("knows", []string{"person"}, []string{"robot"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	var nilDef *edge.Definition
	assert.True(t, nilDef.Equal(nil))
}

func TestDefinitionConnects(t *testing.T) {
	t.Parallel()

	d := edge.New("tagged", []string{"post", "comment"}, []string{"tag"})
	assert.True(t, d.Connects("post", "tag"))
	assert.True(t, d.Connects("comment", "tag"))
	assert.False(t, d.Connects("tag", "post"))
}

func TestRecord(t *testing.T) {
	t.Parallel()

	t.Run("marshal", func(t *testing.T) {
		d := edge.New("knows", []string{"person"}, []string{"person"})
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `{"collection":"knows","from":["person"],"to":["person"]}`, string(b))
	})

	t.Run("empty_sets_from_server", func(t *testing.T) {
		var r edge.Record
		require.NoError(t, json.Unmarshal([]byte(`{"collection":"knows"}`), &r))
		d := r.Definition()
		assert.Equal(t, "knows", d.Collection())
		assert.Empty(t, d.From())
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.JSONEq(t, `{"collection":"knows","from":[],"to":[]}`, string(b))
	})
}
