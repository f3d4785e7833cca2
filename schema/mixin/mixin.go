package mixin

import (
	"github.com/syssam/domainschema/schema"
	"github.com/syssam/domainschema/schema/field"
)

// Schema is the default implementation for the schema.Mixin interface.
// It should be embedded in all custom mixin definitions.
type Schema struct{}

// Fields returns the fields of the mixin.
// Override this method to add custom fields.
func (Schema) Fields() []schema.Field { return nil }

// schema mixin must implement `Mixin` interface.
var _ schema.Mixin = (*Schema)(nil)

// =============================================================================
// Built-in Mixins
// =============================================================================

// ID adds the integer id field.
type ID struct {
	Schema
}

// Fields returns the id field.
func (ID) Fields() []schema.Field {
	return []schema.Field{
		field.Int("id"),
	}
}

// Time adds created_at and updated_at timestamp fields to a schema.
//
// Example:
//
//	func (User) Mixin() []schema.Mixin {
//	    return []schema.Mixin{
//	        mixin.Time{},
//	    }
//	}
type Time struct {
	Schema
}

// Fields returns the time tracking fields.
func (Time) Fields() []schema.Field {
	return append(CreateTime{}.Fields(), UpdateTime{}.Fields()...)
}

// CreateTime adds only created_at timestamp field to a schema.
type CreateTime struct {
	Schema
}

// Fields returns the created_at field.
func (CreateTime) Fields() []schema.Field {
	return []schema.Field{
		field.DateTime("created_at"),
	}
}

// UpdateTime adds only updated_at timestamp field to a schema.
type UpdateTime struct {
	Schema
}

// Fields returns the updated_at field.
func (UpdateTime) Fields() []schema.Field {
	return []schema.Field{
		field.DateTime("updated_at"),
	}
}

// SoftDelete adds a nullable deleted_at field.
type SoftDelete struct {
	Schema
}

// Fields returns the soft delete field.
func (SoftDelete) Fields() []schema.Field {
	return []schema.Field{
		field.DateTime("deleted_at").Optional(),
	}
}

// AnnotateFields wraps a mixin and adds annotations to all its fields.
//
// Example:
//
//	mixin.AnnotateFields(
//	    mixin.Time{},
//	    sqlschema.Skip(),
//	)
func AnnotateFields(m schema.Mixin, annotations ...schema.Annotation) schema.Mixin {
	return fieldAnnotator{Mixin: m, annotations: annotations}
}

type fieldAnnotator struct {
	schema.Mixin
	annotations []schema.Annotation
}

func (a fieldAnnotator) Fields() []schema.Field {
	fields := a.Mixin.Fields()
	for i := range fields {
		desc := fields[i].Declaration()
		desc.Annotations = schema.Annotate(desc.Annotations, a.annotations...)
	}
	return fields
}
