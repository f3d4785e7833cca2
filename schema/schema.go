package schema

import (
	"maps"
	"strings"
)

// Schema is a normalized definition. Instances are created by Normalize and
// are read-only: accessors return copies, and nested schema types share the
// canonical *Schema of the referenced definition.
type Schema struct {
	def    Definition
	meta   Meta
	values []Descriptor
	index  map[string]int
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.meta.Name }

// Meta returns a copy of the metadata block.
func (s *Schema) Meta() Meta { return s.meta.Clone() }

// Definition returns the raw definition the schema was built from.
func (s *Schema) Definition() Definition { return s.def }

// IsSchema always returns true.
func (s *Schema) IsSchema() bool { return true }

// Values returns the normalized fields in declaration order.
func (s *Schema) Values() []Descriptor {
	values := make([]Descriptor, len(s.values))
	for i := range s.values {
		values[i] = s.values[i].clone()
	}
	return values
}

// Value returns the normalized field with the given name.
func (s *Schema) Value(name string) (Descriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return Descriptor{}, false
	}
	return s.values[i].clone(), true
}

// Keys returns the field names in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, len(s.values))
	for i := range s.values {
		keys[i] = s.values[i].Name
	}
	return keys
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.values) }

// Fields implements Definition by delegating to the raw definition, so a
// normalized schema can be passed wherever a definition is accepted.
func (s *Schema) Fields() []Field {
	if s.def == nil {
		return nil
	}
	return s.def.Fields()
}

// String returns the schema name.
func (s *Schema) String() string { return s.meta.Name }

// Descriptor is a normalized field.
type Descriptor struct {
	Name        string
	Type        FieldType
	Optional    bool
	Unique      bool
	Default     any
	Max         int
	Private     bool
	Transient   bool
	External    bool
	Blackbox    bool
	Annotations map[string]any
}

// IsSchema reports whether the field type is a schema, or an array of schemas.
func (d Descriptor) IsSchema() bool { return d.Type.Underlying().IsSchema() }

// IsArray reports whether the field holds many values.
func (d Descriptor) IsArray() bool { return d.Type.IsArray() }

// Annotation returns the annotation stored under key.
func (d Descriptor) Annotation(key string) (any, bool) {
	v, ok := d.Annotations[key]
	return v, ok
}

func (d Descriptor) clone() Descriptor {
	d.Annotations = maps.Clone(d.Annotations)
	return d
}

// FieldType is the resolved type of a normalized field: a primitive kind, a
// schema, or an array of exactly one of the two.
type FieldType struct {
	kind   Kind
	schema *Schema
	elem   *FieldType
}

// PrimitiveType returns a primitive field type.
func PrimitiveType(k Kind) FieldType { return FieldType{kind: k} }

// SchemaType returns a field type referencing s.
func SchemaType(s *Schema) FieldType { return FieldType{schema: s} }

// ArrayType returns an array of elem.
func ArrayType(elem FieldType) FieldType { return FieldType{elem: &elem} }

// IsArray reports whether the type is an array.
func (t FieldType) IsArray() bool { return t.elem != nil }

// IsSchema reports whether the type is a schema. Arrays of schemas are not;
// use Underlying first.
func (t FieldType) IsSchema() bool { return t.elem == nil && t.schema != nil }

// IsPrimitive reports whether the type is a primitive kind.
func (t FieldType) IsPrimitive() bool { return t.elem == nil && t.schema == nil && t.kind.Valid() }

// Kind returns the primitive kind, or KindInvalid.
func (t FieldType) Kind() Kind {
	if t.elem != nil || t.schema != nil {
		return KindInvalid
	}
	return t.kind
}

// Schema returns the referenced schema, or nil.
func (t FieldType) Schema() *Schema {
	if t.elem != nil {
		return nil
	}
	return t.schema
}

// Elem returns the element type of an array. It returns the zero FieldType
// for non array types.
func (t FieldType) Elem() FieldType {
	if t.elem == nil {
		return FieldType{}
	}
	return *t.elem
}

// Underlying unwraps arrays.
func (t FieldType) Underlying() FieldType {
	for t.elem != nil {
		t = *t.elem
	}
	return t
}

// String formats the type as Int, Product or [Product].
func (t FieldType) String() string {
	switch {
	case t.elem != nil:
		var b strings.Builder
		b.WriteByte('[')
		b.WriteString(t.elem.String())
		b.WriteByte(']')
		return b.String()
	case t.schema != nil:
		return t.schema.Name()
	default:
		return t.kind.String()
	}
}
