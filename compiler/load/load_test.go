package load_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/syssam/domainschema/compiler/load"
	"github.com/syssam/domainschema/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDir(t *testing.T) {
	c, err := load.ParseDir(context.Background(), filepath.Join("testdata", "shop"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Order", "OrderLine", "Product"}, c.Names())
	assert.Equal(t, 4, c.Len())

	schemas, err := c.Normalize()
	require.NoError(t, err)
	require.Len(t, schemas, 4)

	category, product := schemas[0], schemas[3]
	assert.Equal(t, []string{"id", "name", "products"}, category.Keys())
	assert.Equal(t, "Product category", category.Meta().Extra["label"])
	name, _ := category.Value("name")
	assert.Equal(t, 64, name.Max)
	assert.True(t, name.Unique)

	products, _ := category.Value("products")
	assert.Same(t, product, products.Type.Elem().Schema())
	ref, _ := product.Value("category")
	assert.Same(t, category, ref.Type.Schema())

	assert.Equal(t, []string{"id", "name", "price", "tags", "category", "notes"}, product.Keys())
	price, _ := product.Value("price")
	assert.Equal(t, 0, price.Default)
	tags, _ := product.Value("tags")
	assert.Equal(t, "[String]", tags.Type.String())
	notes, _ := product.Value("notes")
	assert.True(t, notes.Optional)
	assert.Equal(t, map[string]any{"widget": "textarea"}, notes.Annotations)

	line := schemas[2]
	assert.True(t, line.Meta().Transient)
	qty, _ := line.Value("quantity")
	assert.Equal(t, 1, qty.Default)
	p, _ := line.Value("product")
	assert.Same(t, product, p.Type.Schema())
}

func TestParseFiles_Order(t *testing.T) {
	c, err := load.ParseFiles(context.Background(),
		filepath.Join("testdata", "shop", "product.yaml"),
		filepath.Join("testdata", "shop", "category.yaml"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Product", "Category"}, c.Names())

	doc, ok := c.Lookup("Product")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("testdata", "shop", "product.yaml")+":1", doc.Pos)
}

func TestParseFiles_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := load.ParseFiles(ctx, filepath.Join("testdata", "shop", "product.yaml"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseFile_UnknownReference(t *testing.T) {
	_, err := load.ParseFile(filepath.Join("testdata", "unknown", "schema.yaml"))
	require.Error(t, err)
	var ref *load.ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "Review", ref.Schema)
	assert.Equal(t, "product", ref.Field)
	assert.Equal(t, "Product", ref.Name)
	assert.Equal(t, filepath.Join("testdata", "unknown", "schema.yaml")+":3", ref.Pos)
	assert.ErrorIs(t, err, load.ErrUnknownReference)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := load.ParseFile(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
}

func TestParse_DefinitionErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty_array",
			input: "- {__: A, tags: []}",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrArrayArity)
			},
		},
		{
			name:  "two_element_array",
			input: "- {__: A, pair: [String, Float]}",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrArrayArity)
			},
		},
		{
			name:  "nested_array",
			input: "- {__: A, grid: [[Int]]}",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrArrayArity)
			},
		},
		{
			name:  "descriptor_without_type",
			input: "- {__: A, price: {max: 3}}",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrMissingType)
				assert.Contains(t, err.Error(), "'type' key is required for schema field A.price")
			},
		},
		{
			name:  "null_type",
			input: "- __: A\n  price:\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrMissingType)
			},
		},
		{
			name:  "missing_name",
			input: "- id: Int",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrMissingName)
				assert.Contains(t, err.Error(), "<input>:1")
			},
		},
		{
			name:  "duplicate_field",
			input: "- __: A\n  id: Int\n  id: String\n",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, schema.ErrDuplicateField)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, err := load.Parse([]byte(tt.input))
			require.NoError(t, err)
			_, err = c.Normalize()
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParse_StructureErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"scalar_root", "hello"},
		{"definition_not_map", "- [Int]"},
		{"meta_list", "- {__: [a], id: Int}"},
		{"bad_flag", "- {__: A, id: {type: Int, optional: maybe}}"},
		{"type_map", "- {__: A, id: {type: {kind: Int}}}"},
		{"syntax", "- {__: A"},
		{"duplicate_definition", "- {__: A, id: Int}\n- {__: A, id: Int}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := load.Parse([]byte(tt.input))
			require.Error(t, err)
		})
	}

	_, err := load.Parse([]byte("- {__: A, id: Int}\n- {__: A, id: Int}"))
	var dup *load.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.Name)
	assert.Equal(t, "<input>:2", dup.Pos)
	assert.Equal(t, "<input>:1", dup.Prev)
}

func TestParse_Empty(t *testing.T) {
	c, err := load.Parse(nil)
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	c, err = load.Parse([]byte("---\n- {__: A, id: Int}\n---\n- {__: B, a: A}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, c.Names())
}

func TestParseType(t *testing.T) {
	product := load.NewDocument(schema.Meta{Name: "Product"})
	lookup := func(name string) (schema.Definition, bool) {
		if name == "Product" {
			return product, true
		}
		return nil, false
	}
	tests := []struct {
		expr string
		want string
	}{
		{"Int", "Integer"},
		{"string", "String"},
		{"Product", "Product"},
		{"[Product]", "[Product]"},
		{" [ Float ] ", "[Float]"},
		{"[]", "[]"},
		{"[String, Float]", "[String, Float]"},
		{"[[Int]]", "[[Integer]]"},
		{"", "<unset>"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			typ, err := load.ParseType(tt.expr, lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, typ.String())
		})
	}

	typ, err := load.ParseType("Product", lookup)
	require.NoError(t, err)
	assert.Equal(t, product, typ.Ref())

	_, err = load.ParseType("[Unknown]", lookup)
	var ref *load.ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "Unknown", ref.Name)
	assert.EqualError(t, err, `load: unknown type "Unknown"`)
}

func TestCatalog_NormalizeByName(t *testing.T) {
	c, err := load.ParseDir(context.Background(), filepath.Join("testdata", "shop"))
	require.NoError(t, err)
	schemas, err := c.Normalize("Order")
	require.NoError(t, err)
	require.Len(t, schemas, 1)
	assert.Equal(t, "Order", schemas[0].Name())

	_, err = c.Normalize("Missing")
	assert.ErrorIs(t, err, load.ErrUnknownReference)
}

func TestMarshal_RoundTrip(t *testing.T) {
	c, err := load.ParseDir(context.Background(), filepath.Join("testdata", "shop"))
	require.NoError(t, err)
	schemas, err := c.Normalize()
	require.NoError(t, err)

	out, err := load.Marshal(schemas...)
	require.NoError(t, err)
	assert.Contains(t, string(out), "products: [Product]")

	again, err := load.Parse(out)
	require.NoError(t, err)
	reloaded, err := again.Normalize()
	require.NoError(t, err)
	require.Len(t, reloaded, len(schemas))
	for i, s := range schemas {
		r := reloaded[i]
		assert.Equal(t, s.Name(), r.Name())
		assert.Equal(t, s.Meta(), r.Meta())
		assert.Equal(t, s.Keys(), r.Keys())
		for _, v := range s.Values() {
			rv, ok := r.Value(v.Name)
			require.True(t, ok)
			assert.Equal(t, v.Type.String(), rv.Type.String())
			assert.Equal(t, v.Optional, rv.Optional)
			assert.Equal(t, v.Unique, rv.Unique)
			assert.Equal(t, v.Max, rv.Max)
			assert.Equal(t, v.Default, rv.Default)
			assert.Equal(t, v.Annotations, rv.Annotations)
		}
	}
}
