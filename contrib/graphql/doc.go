// Package graphql generates GraphQL type definitions (SDL) from
// normalized schemas.
//
// Every field maps to a GraphQL type: Boolean, ID, Int, Float, String,
// Date, DateTime and Time for primitives, the referenced type name for
// schemas and a list for arrays. Fields are non-null unless declared
// Optional; private fields are left out:
//
//	g, err := graphql.NewGenerator()
//	if err != nil {
//	    return err
//	}
//	sdl, err := g.Generate(Category{})
//
// produces
//
//	type Product {
//	  id: Int!
//	  name: String!
//	  category: Category!
//	}
//	type Category {
//	  id: Int!
//	  name: String!
//	  products: [Product!]!
//	}
//
// Referenced types are emitted before the types referencing them. Types are
// tracked by name, so self and mutual references terminate. Schemas marked
// Exclude are never emitted and external fields do not pull in their type.
// Blackbox schema fields are typed with the JSON scalar.
//
// # Annotations
//
// Schema-level annotations are stored in Meta.Extra under AnnotationName;
// field-level annotations are attached with the field builder:
//
//	field.String("user_id").Annotations(graphql.Type("ID"))
//	field.String("secret").Annotations(graphql.Skip())
//
// # gqlgen
//
// WriteGQLGenConfig adds the schema path and a model binding per emitted
// type to a gqlgen.yml file.
package graphql
