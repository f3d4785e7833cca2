package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for definition failures.
var (
	// ErrInvalidDefinition is matched by every definition error.
	ErrInvalidDefinition = errors.New("domainschema: invalid schema definition")
	// ErrSchemaType indicates a value that cannot be used as a definition.
	ErrSchemaType = errors.New("domainschema: not a schema")
	// ErrMissingName indicates a metadata block without a name.
	ErrMissingName = errors.New("domainschema: missing schema name")
	// ErrMissingType indicates a field without a resolvable type.
	ErrMissingType = errors.New("domainschema: missing field type")
	// ErrArrayArity indicates an array type without exactly one element.
	ErrArrayArity = errors.New("domainschema: invalid array arity")
	// ErrDuplicateField indicates a field name declared twice.
	ErrDuplicateField = errors.New("domainschema: duplicate field")
	// ErrUnknownType indicates a type a generator cannot map.
	ErrUnknownType = errors.New("domainschema: unknown type")
)

// SchemaTypeError is returned for nil, non-comparable or panicking definitions.
type SchemaTypeError struct {
	Schema string // Printable form of the value
	Field  string // Field holding the value, if any
	Cause  error  // Recovered panic, if any
}

// Error implements the error interface.
func (e *SchemaTypeError) Error() string {
	var b strings.Builder
	b.WriteString("domainschema: schema ")
	b.WriteString(e.Schema)
	if e.Field != "" {
		b.WriteString(" (field ")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	b.WriteString(" must be an instance of Schema")
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaTypeError) Unwrap() error { return e.Cause }

// Is reports whether the target matches ErrSchemaType or ErrInvalidDefinition.
func (e *SchemaTypeError) Is(target error) bool {
	return target == ErrSchemaType || target == ErrInvalidDefinition
}

// NewSchemaTypeError creates a new SchemaTypeError for the given value.
func NewSchemaTypeError(v any, field string, cause error) *SchemaTypeError {
	return &SchemaTypeError{Schema: describe(v), Field: field, Cause: cause}
}

// MissingNameError is returned when a definition has no name.
type MissingNameError struct {
	Schema string // Printable form of the definition
	Field  string // Field referencing the definition, if any
}

// Error implements the error interface.
func (e *MissingNameError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("domainschema: 'name' is required in the '__' block of %s (referenced by %s)", e.Schema, e.Field)
	}
	return fmt.Sprintf("domainschema: 'name' is required in the '__' block of %s", e.Schema)
}

// Is reports whether the target matches ErrMissingName or ErrInvalidDefinition.
func (e *MissingNameError) Is(target error) bool {
	return target == ErrMissingName || target == ErrInvalidDefinition
}

// MissingTypeError is returned when a field type is unset or invalid.
type MissingTypeError struct {
	Schema string
	Field  string
}

// Error implements the error interface.
func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("domainschema: 'type' key is required for schema field %s.%s", e.Schema, e.Field)
}

// Is reports whether the target matches ErrMissingType or ErrInvalidDefinition.
func (e *MissingTypeError) Is(target error) bool {
	return target == ErrMissingType || target == ErrInvalidDefinition
}

// ArrayArityError is returned for arrays with zero or several element types,
// and for nested arrays.
type ArrayArityError struct {
	Schema string
	Field  string
	Count  int  // Number of declared element types
	Nested bool // The element type is itself an array
}

// Error implements the error interface.
func (e *ArrayArityError) Error() string {
	if e.Nested {
		return fmt.Sprintf("domainschema: array key %s.%s should contain one type inside, not a nested array", e.Schema, e.Field)
	}
	return fmt.Sprintf("domainschema: array key %s.%s should contain one type inside (got %d)", e.Schema, e.Field, e.Count)
}

// Is reports whether the target matches ErrArrayArity or ErrInvalidDefinition.
func (e *ArrayArityError) Is(target error) bool {
	return target == ErrArrayArity || target == ErrInvalidDefinition
}

// DuplicateFieldError is returned when a schema declares a field name twice.
type DuplicateFieldError struct {
	Schema string
	Field  string
}

// Error implements the error interface.
func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("domainschema: field %s.%s is declared more than once", e.Schema, e.Field)
}

// Is reports whether the target matches ErrDuplicateField or ErrInvalidDefinition.
func (e *DuplicateFieldError) Is(target error) bool {
	return target == ErrDuplicateField || target == ErrInvalidDefinition
}

// UnknownTypeError is returned by generators for types they cannot map.
type UnknownTypeError struct {
	Schema string
	Field  string
	Type   string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("domainschema: unknown type %s for field %s.%s", e.Type, e.Schema, e.Field)
}

// Is reports whether the target matches ErrUnknownType.
func (e *UnknownTypeError) Is(target error) bool {
	return target == ErrUnknownType
}

// IsDefinitionError returns true if err is caused by a malformed definition.
func IsDefinitionError(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidDefinition)
}

// IsMissingType returns true if the error is a MissingTypeError.
func IsMissingType(err error) bool {
	var e *MissingTypeError
	return errors.As(err, &e)
}

// IsArrayArity returns true if the error is an ArrayArityError.
func IsArrayArity(err error) bool {
	var e *ArrayArityError
	return errors.As(err, &e)
}

// describe returns a printable name for a definition-like value.
func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case *Schema:
		return v.Name()
	case Definition:
		if m, err := safeMeta(v); err == nil && m.Name != "" {
			return m.Name
		}
	}
	return fmt.Sprintf("%T", v)
}
