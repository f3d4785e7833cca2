// Package sqlschema provides SQL-specific annotations for schemas and
// fields.
//
// Import this package as:
//
//	import "github.com/syssam/domainschema/dialect/sqlschema"
//
// # API Styles
//
// Functional style (recommended for simple cases):
//
//	sqlschema.Size(10)
//	sqlschema.ColumnType("JSONB")
//	sqlschema.OnDelete(sqlschema.SetNull)
//	sqlschema.DefaultExpr("CURRENT_TIMESTAMP")
//
// Struct literal style:
//
//	sqlschema.Annotation{
//	    Size:       10,
//	    ColumnType: "JSONB",
//	    OnDelete:   sqlschema.SetNull,
//	}
//
// # Field Annotations
//
//	field.String("code").Annotations(sqlschema.Size(10))
//	field.String("data").Annotations(sqlschema.ColumnType("JSONB"))
//	field.Ref("owner", User{}).Annotations(sqlschema.OnDelete(sqlschema.SetNull))
//	field.String("legacy").Annotations(sqlschema.Skip())
//
// # Schema Annotations
//
// Schema-level annotations are stored in Meta.Extra under AnnotationName:
//
//	func (User) Meta() schema.Meta {
//	    return schema.Meta{
//	        Name:  "User",
//	        Extra: map[string]any{sqlschema.AnnotationName: sqlschema.Table("users")},
//	    }
//	}
//
// # Cascade Actions
//
// Available constants for OnDelete:
//
//	sqlschema.Cascade    - Delete related rows (default)
//	sqlschema.SetNull    - Set foreign key to NULL
//	sqlschema.Restrict   - Prevent delete if related rows exist
//	sqlschema.SetDefault - Set foreign key to default value
//	sqlschema.NoAction   - No action (database default)
package sqlschema

import (
	"github.com/syssam/domainschema/schema"
)

// AnnotationName is the name used for SQL annotations.
const AnnotationName = "sql"

// CascadeAction defines cascade behavior for foreign key constraints.
type CascadeAction string

const (
	Cascade    CascadeAction = "CASCADE"
	SetNull    CascadeAction = "SET NULL"
	Restrict   CascadeAction = "RESTRICT"
	SetDefault CascadeAction = "SET DEFAULT"
	NoAction   CascadeAction = "NO ACTION"
)

// Annotation holds SQL-specific settings for schemas and fields.
type Annotation struct {
	// Table overrides the database table name of a schema.
	Table string

	// Skip indicates this field or schema should be skipped in SQL generation.
	Skip bool

	// Size overrides the column size (e.g., VARCHAR(Size)).
	Size int64

	// ColumnType sets a custom database column type.
	ColumnType string

	// Collation sets the collation for string columns.
	Collation string

	// OnDelete sets the ON DELETE action of the foreign key of a reference.
	OnDelete CascadeAction

	// Default is the SQL literal default value.
	Default string

	// DefaultExpr is a SQL expression for the default value.
	DefaultExpr string
}

// Name implements schema.Annotation.
func (Annotation) Name() string {
	return AnnotationName
}

// Merge implements schema.Merger.
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	switch other := other.(type) {
	case Annotation:
		return Merge(a, other)
	case *Annotation:
		if other != nil {
			return Merge(a, *other)
		}
	}
	return a
}

// Ensure Annotation implements schema.Annotation.
var _ schema.Annotation = (*Annotation)(nil)

// Table sets the database table name of a schema.
func Table(name string) Annotation {
	return Annotation{Table: name}
}

// Skip excludes a field or a schema from SQL generation.
func Skip() Annotation {
	return Annotation{Skip: true}
}

// Size sets the column size override.
//
//	field.String("code").
//	    Annotations(sqlschema.Size(10))
func Size(size int64) Annotation {
	return Annotation{Size: size}
}

// ColumnType sets a custom database column type.
//
//	field.String("data").
//	    Annotations(sqlschema.ColumnType("JSONB"))
func ColumnType(typ string) Annotation {
	return Annotation{ColumnType: typ}
}

// Collation sets the collation for a string column.
func Collation(collation string) Annotation {
	return Annotation{Collation: collation}
}

// OnDelete sets the ON DELETE action of a reference.
//
//	field.Ref("owner", User{}).
//	    Annotations(sqlschema.OnDelete(sqlschema.SetNull))
func OnDelete(action CascadeAction) Annotation {
	return Annotation{OnDelete: action}
}

// Default sets a SQL literal default value.
func Default(value string) Annotation {
	return Annotation{Default: value}
}

// DefaultExpr sets a SQL expression as the default value.
func DefaultExpr(expr string) Annotation {
	return Annotation{DefaultExpr: expr}
}

// Merge combines multiple SQL annotations into one.
// Later annotations override earlier ones.
func Merge(annotations ...Annotation) Annotation {
	result := Annotation{}
	for _, a := range annotations {
		if a.Table != "" {
			result.Table = a.Table
		}
		if a.Skip {
			result.Skip = a.Skip
		}
		if a.Size != 0 {
			result.Size = a.Size
		}
		if a.ColumnType != "" {
			result.ColumnType = a.ColumnType
		}
		if a.Collation != "" {
			result.Collation = a.Collation
		}
		if a.OnDelete != "" {
			result.OnDelete = a.OnDelete
		}
		if a.Default != "" {
			result.Default = a.Default
		}
		if a.DefaultExpr != "" {
			result.DefaultExpr = a.DefaultExpr
		}
	}
	return result
}

// Of returns the SQL annotation stored in an annotation map, such as
// Descriptor.Annotations or Meta.Extra.
func Of(m map[string]any) Annotation {
	switch a := m[AnnotationName].(type) {
	case Annotation:
		return a
	case *Annotation:
		if a != nil {
			return *a
		}
	}
	return Annotation{}
}
