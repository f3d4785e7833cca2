package schema_test

import (
	"testing"

	"github.com/syssam/domainschema/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSchema(t *testing.T) {
	normalized, err := schema.Normalize(Product{})
	require.NoError(t, err)

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"normalized", normalized, true},
		{"definition", Product{}, true},
		{"pointer_definition", def("X"), true},
		{"nameless_definition", Anonymous{}, true},
		{"nil", nil, false},
		{"nil_schema", (*schema.Schema)(nil), false},
		{"nil_pointer", (*dynamic)(nil), false},
		{"kind", schema.KindString, false},
		{"string", "Product", false},
		{"panicking", Boom{}, false},
		{"panicking_fields", BoomFields{}, false},
		{"uncomparable", Uncomparable{tags: []string{"a"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, schema.IsSchema(tt.v))
			})
		})
	}
}

func TestIsConstructible(t *testing.T) {
	assert.True(t, schema.IsConstructible(Category{}))
	assert.True(t, schema.IsConstructible(def("X")))
	assert.False(t, schema.IsConstructible(nil))
	assert.False(t, schema.IsConstructible(42))
	assert.False(t, schema.IsConstructible(Boom{}))
	assert.False(t, schema.IsConstructible(BoomFields{}))
	assert.False(t, schema.IsConstructible(Uncomparable{}))
}
