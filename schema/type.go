package schema

import (
	"fmt"
	"strings"
)

// typeTag discriminates the raw Type union.
type typeTag uint8

const (
	tagUnset typeTag = iota
	tagPrimitive
	tagRef
	tagArray
)

// Type is the declared type of a raw field. The zero value is unset and makes
// normalization fail with a MissingTypeError.
type Type struct {
	tag   typeTag
	kind  Kind
	ref   Definition
	elems []Type
}

// Primitive returns a primitive type.
func Primitive(k Kind) Type {
	return Type{tag: tagPrimitive, kind: k}
}

// RefTo returns a reference to another definition. The definition may be an
// already normalized *Schema.
func RefTo(def Definition) Type {
	return Type{tag: tagRef, ref: def}
}

// ArrayOf returns an array type. Exactly one element is valid; the elements
// are kept as given so that arity errors surface during normalization.
func ArrayOf(elems ...Type) Type {
	return Type{tag: tagArray, elems: elems}
}

// IsSet reports whether a type was declared.
func (t Type) IsSet() bool { return t.tag != tagUnset }

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool { return t.tag == tagArray }

// IsRef reports whether t references another definition.
func (t Type) IsRef() bool { return t.tag == tagRef }

// Kind returns the primitive kind, or KindInvalid for non primitive types.
func (t Type) Kind() Kind {
	if t.tag != tagPrimitive {
		return KindInvalid
	}
	return t.kind
}

// Ref returns the referenced definition, if any.
func (t Type) Ref() Definition { return t.ref }

// Elems returns a copy of the array elements.
func (t Type) Elems() []Type {
	return append([]Type(nil), t.elems...)
}

// String formats the type the way it is written in documents.
func (t Type) String() string {
	switch t.tag {
	case tagPrimitive:
		return t.kind.String()
	case tagRef:
		if s, ok := t.ref.(*Schema); ok {
			return s.Name()
		}
		if m, err := safeMeta(t.ref); err == nil && m.Name != "" {
			return m.Name
		}
		return fmt.Sprintf("%T", t.ref)
	case tagArray:
		parts := make([]string, len(t.elems))
		for i, e := range t.elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<unset>"
	}
}
