package schema

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Kind is a primitive marker. The set is closed: a field type is either one of
// these kinds, a reference to another schema, or an array of one of the two.
type Kind uint8

// Primitive kinds.
const (
	KindInvalid Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindDate
	KindTime
	KindDateTime
	KindID
	endKinds
)

var kindNames = [...]string{
	KindInvalid:  "Invalid",
	KindBoolean:  "Boolean",
	KindInteger:  "Integer",
	KindFloat:    "Float",
	KindString:   "String",
	KindDate:     "Date",
	KindTime:     "Time",
	KindDateTime: "DateTime",
	KindID:       "ID",
}

// kindAliases maps case-folded spellings to kinds. Canonical names are added in init.
var kindAliases = map[string]Kind{
	"bool":      KindBoolean,
	"int":       KindInteger,
	"int64":     KindInteger,
	"number":    KindFloat,
	"float64":   KindFloat,
	"double":    KindFloat,
	"text":      KindString,
	"timestamp": KindDateTime,
}

func init() {
	for k := KindBoolean; k < endKinds; k++ {
		kindAliases[fold(kindNames[k])] = k
	}
}

// fold case-folds s. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if k < endKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is one of the primitive kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < endKinds
}

// Numeric reports whether the kind holds a number.
func (k Kind) Numeric() bool {
	return k == KindInteger || k == KindFloat
}

// Temporal reports whether the kind holds a date, a time or both.
func (k Kind) Temporal() bool {
	return k == KindDate || k == KindTime || k == KindDateTime
}

// Kinds returns all valid primitive kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, endKinds-1)
	for k := KindBoolean; k < endKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind resolves a kind name. Matching is case-insensitive and accepts a few
// common aliases ("Int", "Bool", "Number", "Timestamp").
func ParseKind(name string) (Kind, bool) {
	k, ok := kindAliases[fold(strings.TrimSpace(name))]
	return k, ok
}
