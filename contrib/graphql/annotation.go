package graphql

import (
	"slices"

	"github.com/syssam/domainschema/schema"
)

// AnnotationName is the name used for GraphQL annotations.
const AnnotationName = "graphql"

// Directive is a GraphQL directive applied to a type or a field.
type Directive struct {
	Name string
	Args map[string]any
}

// Annotation holds GraphQL settings for schemas and fields. Schema-level
// annotations are stored in Meta.Extra under AnnotationName:
//
//	func (User) Meta() schema.Meta {
//	    return schema.Meta{
//	        Name:  "User",
//	        Extra: map[string]any{graphql.AnnotationName: graphql.Type("Member")},
//	    }
//	}
//
// Field-level annotations are attached with the field builder:
//
//	field.String("user_id").Annotations(graphql.Type("ID"))
type Annotation struct {
	// Skip excludes the type or the field from the generated schema.
	Skip bool

	// Type sets a custom GraphQL type name.
	// Schema-level: renames the GraphQL type (e.g., User -> Member)
	// Field-level: sets the scalar type (e.g., String -> ID)
	Type string

	// FieldName sets a custom GraphQL field name.
	FieldName string

	// Description is emitted as the GraphQL description.
	Description string

	// Directives adds custom GraphQL directives.
	Directives []Directive

	// Implements lists the interfaces a type implements.
	Implements []string
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements schema.Merger.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	var ant Annotation
	switch other := other.(type) {
	case Annotation:
		ant = other
	case *Annotation:
		if other != nil {
			ant = *other
		}
	default:
		return a
	}
	a.Skip = a.Skip || ant.Skip
	if ant.Type != "" {
		a.Type = ant.Type
	}
	if ant.FieldName != "" {
		a.FieldName = ant.FieldName
	}
	if ant.Description != "" {
		a.Description = ant.Description
	}
	a.Directives = append(slices.Clone(a.Directives), ant.Directives...)
	for _, iface := range ant.Implements {
		if !slices.Contains(a.Implements, iface) {
			a.Implements = append(slices.Clone(a.Implements), iface)
		}
	}
	return a
}

// Ensure Annotation implements schema.Annotation.
var _ schema.Annotation = (*Annotation)(nil)

// Skip returns an annotation that excludes a type or a field.
func Skip() Annotation {
	return Annotation{Skip: true}
}

// Type sets a custom GraphQL type name.
//
//	graphql.Type("Member")                                   // schema-level
//	field.String("user_id").Annotations(graphql.Type("ID"))  // field-level
func Type(name string) Annotation {
	return Annotation{Type: name}
}

// FieldName sets a custom GraphQL field name.
func FieldName(name string) Annotation {
	return Annotation{FieldName: name}
}

// Description sets the GraphQL description.
func Description(text string) Annotation {
	return Annotation{Description: text}
}

// Directives adds custom GraphQL directives.
//
//	graphql.Directives(graphql.Directive{Name: "deprecated", Args: map[string]any{"reason": "use name"}})
func Directives(dirs ...Directive) Annotation {
	return Annotation{Directives: dirs}
}

// Implements adds interfaces to a type.
func Implements(interfaces ...string) Annotation {
	return Annotation{Implements: interfaces}
}

// annotationOf returns the GraphQL annotation stored in m, if any.
func annotationOf(m map[string]any) Annotation {
	switch ant := m[AnnotationName].(type) {
	case Annotation:
		return ant
	case *Annotation:
		if ant != nil {
			return *ant
		}
	}
	return Annotation{}
}
