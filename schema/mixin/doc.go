// Package mixin provides reusable field groups for schema definitions.
//
// # Built-in Mixins
//
//	// ID mixin: Adds the integer id field
//	mixin.ID{}
//
//	// Time mixin: Adds created_at and updated_at timestamps
//	mixin.Time{}
//
//	// SoftDelete mixin: Adds a nullable deleted_at
//	mixin.SoftDelete{}
//
// # Using Mixins
//
// Mixins are applied to definitions via the Mixin() method:
//
//	type User struct{ schema.Base }
//
//	func (User) Mixin() []schema.Mixin {
//	    return []schema.Mixin{
//	        mixin.ID{},
//	        mixin.Time{},
//	    }
//	}
//
// The normalized User schema starts with:
//   - id (Integer)
//   - created_at (DateTime)
//   - updated_at (DateTime)
//
// # Creating Custom Mixins
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Fields() []schema.Field {
//	    return []schema.Field{
//	        field.String("created_by"),
//	        field.String("updated_by").Optional(),
//	    }
//	}
//
// # Mixin Order
//
// Mixin fields are declared in the order the mixins are listed, before the
// definition's own fields. Declaring the same field name twice is an error.
package mixin
