package load

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownReference is matched by every ReferenceError.
var ErrUnknownReference = errors.New("load: unknown type reference")

// ReferenceError is returned for a type name that is neither a primitive
// kind nor a loaded definition.
type ReferenceError struct {
	Pos    string // file:line of the field, if known
	Schema string
	Field  string
	Name   string // Unresolved type name
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	var b strings.Builder
	b.WriteString("load: ")
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "unknown type %q", e.Name)
	if e.Field != "" {
		fmt.Fprintf(&b, " for field %s.%s", e.Schema, e.Field)
	}
	return b.String()
}

// Is reports whether the target matches ErrUnknownReference.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnknownReference
}

// DuplicateError is returned when two loaded definitions share a name.
type DuplicateError struct {
	Name string
	Pos  string
	Prev string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("load: %s: definition %q already declared at %s", e.Pos, e.Name, e.Prev)
}
