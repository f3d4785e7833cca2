// Package schema normalizes declarative data model definitions.
//
// A definition is a named, ordered list of field declarations. Each field is
// a primitive kind, a reference to another definition, or an array of exactly
// one of the two:
//
//   - [field]: Field builders for declarations
//   - [mixin]: Reusable field groups
//
// # Quick Start
//
// Definitions are usually struct types embedding [Base]. Mutually
// referential definitions work because references are plain values:
//
//	type Category struct{ schema.Base }
//
//	func (Category) Meta() schema.Meta { return schema.Meta{Name: "Category"} }
//
//	func (Category) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.Int("id"),
//	        field.String("name"),
//	        field.Array("products", schema.RefTo(Product{})),
//	    }
//	}
//
//	type Product struct{ schema.Base }
//
//	func (Product) Meta() schema.Meta { return schema.Meta{Name: "Product"} }
//
//	func (Product) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.Int("id"),
//	        field.String("name"),
//	        field.Ref("category", Category{}),
//	    }
//	}
//
// # Normalization
//
// [Normalize] resolves a definition into a [Schema]. Within one call each
// definition maps to a single *Schema, so the product reachable from a
// category's products field is the very same pointer as Normalize(Product{}):
//
//	p, err := schema.Normalize(Product{})
//	if err != nil {
//	    return err
//	}
//	c, _ := p.Value("category")
//	products, _ := c.Type.Schema().Value("products")
//	products.Type.Elem().Schema() == p // true
//
// Normalization fails early on malformed definitions. Every such error
// matches [ErrInvalidDefinition]:
//
//	[SchemaTypeError]      nil, non-comparable or panicking definition
//	[MissingNameError]     empty Meta().Name
//	[MissingTypeError]     field without a type
//	[ArrayArityError]      array without exactly one element type
//	[DuplicateFieldError]  field name declared twice
//
// A [Registry] keeps normalized schemas across calls.
package schema
