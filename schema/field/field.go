package field

import "github.com/syssam/domainschema/schema"

// Builder is the fluent builder of a field declaration.
type Builder struct {
	desc *schema.Declaration
}

// Of returns a builder for a field of the given type.
func Of(name string, typ schema.Type) *Builder {
	return &Builder{desc: &schema.Declaration{Name: name, Type: typ}}
}

// Untyped returns a builder for a field without a type. Normalizing a schema
// holding it fails with a MissingTypeError.
func Untyped(name string) *Builder {
	return &Builder{desc: &schema.Declaration{Name: name}}
}

// Bool returns a builder for a boolean field.
func Bool(name string) *Builder { return Of(name, schema.Primitive(schema.KindBoolean)) }

// Int returns a builder for an integer field.
func Int(name string) *Builder { return Of(name, schema.Primitive(schema.KindInteger)) }

// Float returns a builder for a floating point field.
func Float(name string) *Builder { return Of(name, schema.Primitive(schema.KindFloat)) }

// String returns a builder for a string field.
func String(name string) *Builder { return Of(name, schema.Primitive(schema.KindString)) }

// Date returns a builder for a calendar date field.
func Date(name string) *Builder { return Of(name, schema.Primitive(schema.KindDate)) }

// Time returns a builder for a time of day field.
func Time(name string) *Builder { return Of(name, schema.Primitive(schema.KindTime)) }

// DateTime returns a builder for a timestamp field.
func DateTime(name string) *Builder { return Of(name, schema.Primitive(schema.KindDateTime)) }

// ID returns a builder for an identifier field.
func ID(name string) *Builder { return Of(name, schema.Primitive(schema.KindID)) }

// Ref returns a builder for a to-one reference to another definition.
//
//	field.Ref("category", Category{})
func Ref(name string, def schema.Definition) *Builder {
	return Of(name, schema.RefTo(def))
}

// Array returns a builder for an array field. Exactly one element type is
// valid; other arities are reported when the schema is normalized.
//
//	field.Array("tags", schema.Primitive(schema.KindString))
//	field.Array("products", schema.RefTo(Product{}))
func Array(name string, elems ...schema.Type) *Builder {
	return Of(name, schema.ArrayOf(elems...))
}

// Optional marks the field as nullable.
func (b *Builder) Optional() *Builder {
	b.desc.Optional = true
	return b
}

// Unique marks the field as unique.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Default sets the default value of the field.
func (b *Builder) Default(v any) *Builder {
	b.desc.Default = v
	return b
}

// Max sets the maximum length (strings) of the field.
func (b *Builder) Max(n int) *Builder {
	b.desc.Max = n
	return b
}

// Private hides the field from public type definitions.
func (b *Builder) Private() *Builder {
	b.desc.Private = true
	return b
}

// Transient marks the field as not persisted.
func (b *Builder) Transient() *Builder {
	b.desc.Transient = true
	return b
}

// External marks a reference as owned by another system: it is not
// traversed and not persisted as a table.
func (b *Builder) External() *Builder {
	b.desc.External = true
	return b
}

// Blackbox stores the referenced value opaquely.
func (b *Builder) Blackbox() *Builder {
	b.desc.Blackbox = true
	return b
}

// Annotations adds generator annotations to the field.
func (b *Builder) Annotations(anns ...schema.Annotation) *Builder {
	b.desc.Annotations = schema.Annotate(b.desc.Annotations, anns...)
	return b
}

// Annotation stores a raw annotation value under key.
//
//	field.String("email").Annotation("validate", "email")
func (b *Builder) Annotation(key string, v any) *Builder {
	if b.desc.Annotations == nil {
		b.desc.Annotations = make(map[string]any)
	}
	b.desc.Annotations[key] = v
	return b
}

// Descriptor returns the declaration built so far.
func (b *Builder) Descriptor() *schema.Declaration {
	return b.desc
}

// Declaration implements schema.Field.
func (b *Builder) Declaration() *schema.Declaration {
	return b.desc
}
