package schema

import "maps"

// MetaKey is the reserved name of the metadata block. A field declared with
// this name is never part of a normalized schema.
const MetaKey = "__"

type (
	// Definition is a raw schema definition: a named, ordered list of field
	// declarations. Its identity is the interface value itself, so the dynamic
	// type must be comparable. Struct values (Product{}) are the usual form.
	// Pointers work too; a pointer built afresh on each Fields call gets a new
	// identity, and is tied back to its schema only while that schema is
	// still being resolved (a cycle). Elsewhere it normalizes separately.
	//
	//	type Product struct{ schema.Base }
	//
	//	func (Product) Meta() schema.Meta { return schema.Meta{Name: "Product"} }
	//
	//	func (Product) Fields() []schema.Field {
	//		return []schema.Field{
	//			field.Int("id"),
	//			field.String("name"),
	//			field.Ref("category", Category{}),
	//		}
	//	}
	Definition interface {
		Meta() Meta
		Fields() []Field
	}

	// Mixin is a reusable group of field declarations.
	Mixin interface {
		Fields() []Field
	}

	// Mixer is implemented by definitions that pull in mixins. Mixin fields are
	// declared before the definition's own fields.
	Mixer interface {
		Mixin() []Mixin
	}

	// Field is anything that yields a field declaration. *Declaration implements
	// it, and so do the builders of the field package.
	Field interface {
		Declaration() *Declaration
	}

	// Meta is the metadata block of a definition.
	Meta struct {
		// Name is required and is the canonical name of the schema.
		Name string
		// Transient schemas are traversed but not persisted.
		Transient bool
		// Exclude skips the schema when emitting type definitions.
		Exclude bool
		// Blackbox stops recursive traversal at this schema.
		Blackbox bool
		// Extra holds any other pass-through metadata.
		Extra map[string]any
	}

	// Declaration is a raw field: a name, a type and pass-through metadata.
	Declaration struct {
		Name string
		Type Type
		// Optional fields are nullable. Fields are required by default.
		Optional  bool
		Unique    bool
		Default   any
		Max       int
		Private   bool
		Transient bool
		External  bool
		Blackbox  bool
		// Annotations carries validation rules, UI hints and generator
		// specific settings.
		Annotations map[string]any
	}
)

// Declaration implements Field.
func (d *Declaration) Declaration() *Declaration { return d }

// Clone returns a copy of the metadata block with its own Extra map.
func (m Meta) Clone() Meta {
	m.Extra = maps.Clone(m.Extra)
	return m
}

// Base is the zero implementation of Definition. Embed it and override what
// is needed; a definition that does not override Meta has no name and fails
// normalization.
type Base struct{}

// Meta returns an empty metadata block.
func (Base) Meta() Meta { return Meta{} }

// Fields returns no fields.
func (Base) Fields() []Field { return nil }

// Annotation is a named, generator specific value attached to a field or to
// a schema. It is stored under its name in Declaration.Annotations or in
// Meta.Extra.
type Annotation interface {
	Name() string
}

// Merger is implemented by annotations that combine with an annotation of
// the same name instead of replacing it.
type Merger interface {
	Merge(Annotation) Annotation
}

// Annotate stores each annotation under its name in m, merging with an existing value when
// the existing value implements Merger. A nil map is allocated.
func Annotate(m map[string]any, anns ...Annotation) map[string]any {
	for _, a := range anns {
		if a == nil {
			continue
		}
		if m == nil {
			m = make(map[string]any)
		}
		if prev, ok := m[a.Name()].(Merger); ok {
			m[a.Name()] = prev.Merge(a)
			continue
		}
		m[a.Name()] = a
	}
	return m
}
