package sql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/domainschema/dialect"
	"github.com/syssam/domainschema/dialect/sql"
	"github.com/syssam/domainschema/schema"
)

func TestPlanner_Select(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		def     schema.Definition
		sel     []sql.Selection
		want    string
	}{
		{
			name:    "All",
			dialect: dialect.SQLite,
			def:     Category{},
			want:    "SELECT `category`.* FROM `category`",
		},
		{
			name:    "OneToMany",
			dialect: dialect.SQLite,
			def:     Category{},
			sel:     []sql.Selection{{Field: "name"}, sql.Nested("products", sql.Columns("name", "price")...)},
			want: "SELECT `category`.`name` AS `name`, `product`.`name` AS `products_name`, `product`.`price` AS `products_price` " +
				"FROM `category` LEFT JOIN `product` ON `product`.`category_id` = `category`.`id`",
		},
		{
			name:    "ToOne",
			dialect: dialect.Postgres,
			def:     Product{},
			sel:     []sql.Selection{{Field: "name"}, sql.Nested("category", sql.Columns("name")...)},
			want: `SELECT "product"."name" AS "name", "category"."name" AS "category_name" ` +
				`FROM "product" LEFT JOIN "category" ON "category"."id" = "product"."category_id"`,
		},
		{
			name:    "BackReference",
			dialect: dialect.SQLite,
			def:     Book{},
			sel:     []sql.Selection{{Field: "title"}, sql.Nested("owner", sql.Columns("label")...)},
			want: "SELECT `book`.`title` AS `title`, `shelf`.`label` AS `owner_label` " +
				"FROM `book` LEFT JOIN `shelf` ON `shelf`.`id` = `book`.`owner_id`",
		},
		{
			name:    "ThroughTransient",
			dialect: dialect.MySQL,
			def:     Product{},
			sel: []sql.Selection{
				sql.Nested("details", sql.Selection{Field: "weight"}, sql.Nested("notes", sql.Columns("text")...)),
				{Field: "draft"},
			},
			want: "SELECT `note`.`text` AS `details_notes_text` " +
				"FROM `product` LEFT JOIN `note` ON `note`.`product_id` = `product`.`id`",
		},
		{
			name:    "Blackbox",
			dialect: dialect.SQLite,
			def:     Product{},
			sel:     sql.Columns("payload", "tags"),
			want:    "SELECT `product`.`payload` AS `payload`, `product`.`tags` AS `tags` FROM `product`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := newPlanner(t, tt.dialect).Select(tt.def, tt.sel...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestPlanner_SelectErrors(t *testing.T) {
	tests := []struct {
		name   string
		sel    []sql.Selection
		field  string
		reason string
	}{
		{"Unknown", sql.Columns("color"), "color", "unknown field"},
		{"NestedScalar", []sql.Selection{sql.Nested("name", sql.Columns("x")...)}, "name", "nested selection of a non-joinable field"},
		{"NestedExternal", []sql.Selection{sql.Nested("owner", sql.Columns("name")...)}, "owner", "nested selection of a non-joinable field"},
		{"SchemaWithoutFields", sql.Columns("category"), "category", "schema field selected without nested fields"},
		{"Rejoin", []sql.Selection{sql.Nested("category", sql.Nested("products", sql.Columns("name")...))}, "products", "schema already joined"},
	}
	p := newPlanner(t, dialect.SQLite)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := p.Select(Product{}, tt.sel...)
			var serr *sql.SelectError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.field, serr.Field)
			assert.Equal(t, tt.reason, serr.Reason)
		})
	}

	_, err := p.Select(Details{}, sql.Columns("weight")...)
	assert.ErrorIs(t, err, sql.ErrTransient)
}
