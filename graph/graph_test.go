package graph_test

import (
	"bytes"
	"testing"

	"github.com/syssam/domainschema/graph"
	"github.com/syssam/domainschema/schema"
	"github.com/syssam/domainschema/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Category struct{ schema.Base }

func (Category) Meta() schema.Meta {
	return schema.Meta{Name: "Category", Extra: map[string]any{"label": "Category"}}
}

func (Category) Fields() []schema.Field {
	return []schema.Field{
		field.Int("id"),
		field.String("name").Max(64).Unique(),
		field.Array("products", schema.RefTo(Product{})),
	}
}

type Product struct{ schema.Base }

func (Product) Meta() schema.Meta { return schema.Meta{Name: "Product"} }

func (Product) Fields() []schema.Field {
	return []schema.Field{
		field.Int("id"),
		field.String("name"),
		field.Float("price").Optional().Default(9.5),
		field.Array("tags", schema.Primitive(schema.KindString)),
		field.Ref("category", Category{}),
		field.Ref("variant", Variant{}).Optional(),
	}
}

type Variant struct{ schema.Base }

func (Variant) Meta() schema.Meta { return schema.Meta{Name: "Variant", Transient: true} }

func (Variant) Fields() []schema.Field {
	return []schema.Field{field.String("sku")}
}

type named struct {
	name   string
	fields []schema.Field
}

func (n *named) Meta() schema.Meta       { return schema.Meta{Name: n.name} }
func (n *named) Fields() []schema.Field { return n.fields }

func TestNew(t *testing.T) {
	product, err := schema.Normalize(Product{})
	require.NoError(t, err)
	g, err := graph.New(product)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Category", "Variant"}, g.Names())

	n, ok := g.Node("Product")
	require.True(t, ok)
	assert.Same(t, product, n.Schema)
	assert.Equal(t, []string{"Category", "Variant"}, n.Refs())
	assert.Equal(t, graph.NodeID("Product"), n.ID)
	assert.NotEqual(t, graph.NodeID("Category"), n.ID)

	c, _ := g.Node("Category")
	assert.Equal(t, []string{"Product"}, c.Refs())
	_, ok = g.Node("Missing")
	assert.False(t, ok)
}

func TestNodeID_Stable(t *testing.T) {
	assert.Equal(t, graph.NodeID("Product"), graph.NodeID("Product"))
	assert.Equal(t, uint8(5), uint8(graph.NodeID("Product").Version()))
}

func TestNew_Conflict(t *testing.T) {
	a, err := schema.Normalize(&named{name: "X", fields: []schema.Field{field.Int("id")}})
	require.NoError(t, err)
	b, err := schema.Normalize(&named{name: "X", fields: []schema.Field{field.String("id")}})
	require.NoError(t, err)

	_, err = graph.New(a, b)
	var conflict *graph.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "X", conflict.Name)

	g, err := graph.New(a, a, nil)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
}

func TestLoad_SharedRegistry(t *testing.T) {
	g, err := graph.Load(Category{}, Product{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Product", "Variant"}, g.Names())

	_, err = graph.Load(&named{})
	assert.ErrorIs(t, err, schema.ErrMissingName)
}

func TestCycles(t *testing.T) {
	g, err := graph.Load(Product{})
	require.NoError(t, err)
	assert.True(t, g.Cycles())
	assert.Equal(t, []string{"Product", "Category", "Product"}, g.Cycle())

	g, err = graph.Load(Variant{})
	require.NoError(t, err)
	assert.False(t, g.Cycles())
	assert.Nil(t, g.Cycle())

	self := &named{name: "Node"}
	self.fields = []schema.Field{field.Ref("parent", self)}
	g, err = graph.Load(self)
	require.NoError(t, err)
	assert.Equal(t, []string{"Node", "Node"}, g.Cycle())
}

func TestSnapshot_RoundTrip(t *testing.T) {
	g, err := graph.Load(Product{})
	require.NoError(t, err)
	snap := g.Snapshot()
	require.Len(t, snap.Types, 3)
	assert.Equal(t, graph.SnapshotVersion, snap.Version)
	assert.Equal(t, "[Product]", snap.Types[1].Fields[2].Type)

	for _, format := range []graph.Format{graph.FormatJSON, graph.FormatYAML, graph.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, graph.Encode(&buf, snap, format))
			decoded, err := graph.Decode(&buf, format)
			require.NoError(t, err)
			require.Len(t, decoded.Types, len(snap.Types))

			docs, err := decoded.Definitions()
			require.NoError(t, err)
			defs := make([]schema.Definition, len(docs))
			for i, d := range docs {
				defs[i] = d
			}
			again, err := graph.Load(defs...)
			require.NoError(t, err)
			assert.Equal(t, g.Names(), again.Names())
			for _, n := range g.Nodes {
				m, ok := again.Node(n.Name())
				require.True(t, ok)
				assert.Equal(t, n.ID, m.ID)
				assert.Equal(t, n.Schema.Keys(), m.Schema.Keys())
				assert.Equal(t, n.Schema.Meta().Transient, m.Schema.Meta().Transient)
				for _, v := range n.Schema.Values() {
					w, _ := m.Schema.Value(v.Name)
					assert.Equal(t, v.Type.String(), w.Type.String())
					assert.Equal(t, v.Optional, w.Optional)
					assert.Equal(t, v.Unique, w.Unique)
					assert.Equal(t, v.Max, w.Max)
				}
			}

			// Reference identity holds in the rebuilt graph.
			p, _ := again.Node("Product")
			category, _ := p.Schema.Value("category")
			products, _ := category.Type.Schema().Value("products")
			assert.Same(t, p.Schema, products.Type.Elem().Schema())
		})
	}
}

func TestSnapshot_Errors(t *testing.T) {
	_, err := graph.ParseFormat("xml")
	require.Error(t, err)
	f, err := graph.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, graph.FormatYAML, f)

	var buf bytes.Buffer
	assert.Error(t, graph.Encode(&buf, &graph.Snapshot{}, "xml"))
	_, err = graph.Decode(&buf, "xml")
	assert.Error(t, err)

	_, err = graph.Decode(bytes.NewBufferString(`{"version": 99}`), graph.FormatJSON)
	assert.ErrorContains(t, err, "unsupported snapshot version")

	snap := &graph.Snapshot{Types: []graph.SnapshotType{{
		Name:   "A",
		Fields: []graph.SnapshotField{{Name: "b", Type: "B"}},
	}}}
	_, err = snap.Definitions()
	assert.ErrorContains(t, err, "graph: field A.b")
}
