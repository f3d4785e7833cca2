package sql_test

import (
	"github.com/syssam/domainschema/dialect/sqlschema"
	"github.com/syssam/domainschema/schema"
	"github.com/syssam/domainschema/schema/field"
)

type Category struct{ schema.Base }

func (Category) Meta() schema.Meta { return schema.Meta{Name: "Category"} }

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
		field.Bool("draft").Transient(),
		field.Ref("category", Category{}),
		field.Ref("details", Details{}),
		field.Ref("owner", Account{}).External(),
		field.Ref("payload", Payload{}).Blackbox(),
	}
}

type Details struct{ schema.Base }

func (Details) Meta() schema.Meta { return schema.Meta{Name: "Details", Transient: true} }

func (Details) Fields() []schema.Field {
	return []schema.Field{
		field.Float("weight"),
		field.Array("notes", schema.RefTo(Note{})),
	}
}

type Note struct{ schema.Base }

func (Note) Meta() schema.Meta { return schema.Meta{Name: "Note"} }

func (Note) Fields() []schema.Field {
	return []schema.Field{field.String("text").Max(1024)}
}

type Account struct{ schema.Base }

func (Account) Meta() schema.Meta { return schema.Meta{Name: "Account"} }

func (Account) Fields() []schema.Field { return []schema.Field{field.String("name")} }

type Payload struct{ schema.Base }

func (Payload) Meta() schema.Meta { return schema.Meta{Name: "Payload"} }

func (Payload) Fields() []schema.Field { return []schema.Field{field.String("raw")} }

// UserProfile exercises table and column annotations.
type UserProfile struct{ schema.Base }

func (UserProfile) Meta() schema.Meta {
	return schema.Meta{
		Name:  "UserProfile",
		Extra: map[string]any{sqlschema.AnnotationName: sqlschema.Table("profiles")},
	}
}

func (UserProfile) Fields() []schema.Field {
	return []schema.Field{
		field.String("displayName").Annotations(sqlschema.Size(32)),
		field.String("bio").Annotations(sqlschema.ColumnType("TEXT")),
		field.Bool("active").Default(true),
		field.String("status").Annotations(sqlschema.Default("'new'")),
		field.String("legacy").Annotations(sqlschema.Skip()),
		field.Array("photos", schema.RefTo(Photo{})).Annotations(sqlschema.OnDelete(sqlschema.SetNull)),
	}
}

type Photo struct{ schema.Base }

func (Photo) Meta() schema.Meta { return schema.Meta{Name: "Photo"} }

func (Photo) Fields() []schema.Field { return []schema.Field{field.String("url")} }

// Clash declares a column that collides with a foreign key column.
type Clash struct{ schema.Base }

func (Clash) Meta() schema.Meta { return schema.Meta{Name: "Clash"} }

func (Clash) Fields() []schema.Field {
	return []schema.Field{
		field.Int("account_id"),
		field.Ref("account", Account{}),
	}
}

type Embedded struct{ schema.Base }

func (Embedded) Meta() schema.Meta { return schema.Meta{Name: "Embedded", Transient: true} }

func (Embedded) Fields() []schema.Field { return []schema.Field{field.String("x")} }

type Shelf struct{ schema.Base }

func (Shelf) Meta() schema.Meta { return schema.Meta{Name: "Shelf"} }

func (Shelf) Fields() []schema.Field {
	return []schema.Field{
		field.String("label"),
		field.Array("books", schema.RefTo(Book{})),
	}
}

// Book refers back to its shelf under another field name.
type Book struct{ schema.Base }

func (Book) Meta() schema.Meta { return schema.Meta{Name: "Book"} }

func (Book) Fields() []schema.Field {
	return []schema.Field{
		field.String("title"),
		field.Ref("owner", Shelf{}),
	}
}
