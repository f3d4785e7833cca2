// Package field provides fluent builders for schema field declarations.
//
// # Field Types
//
//	field.Bool("active")
//	field.Int("id")
//	field.Float("price")
//	field.String("name")
//	field.Date("birthday")
//	field.Time("opens_at")
//	field.DateTime("created_at")
//	field.ID("external_id")
//
// References and arrays:
//
//	field.Ref("category", Category{})                    // to-one
//	field.Array("products", schema.RefTo(Product{}))     // to-many
//	field.Array("tags", schema.Primitive(schema.KindString))
//
// # Field Options
//
//	field.String("email").
//	    Unique().              // Unique constraint
//	    Optional().            // Nullable
//	    Max(255).              // Maximum length
//	    Default("unknown")     // Default value
//
// Flags consumed by generators:
//
//	field.String("password").Private()            // not emitted in GraphQL
//	field.String("draft").Transient()             // not persisted
//	field.Ref("owner", User{}).External()         // not traversed
//	field.Ref("settings", Settings{}).Blackbox()  // stored opaquely
//
// # Annotations
//
// Generator specific settings are attached as annotations:
//
//	import "github.com/syssam/domainschema/dialect/sqlschema"
//
//	field.String("code").Annotations(sqlschema.Size(10))
//	field.String("email").Annotation("validate", "email")
package field
