package load

import (
	"github.com/syssam/domainschema/schema"
)

// Document is a definition loaded from a schema document. Its identity is
// the pointer, so two documents with equal contents are distinct
// definitions.
type Document struct {
	// Pos is the position of the definition in its source, as file:line.
	Pos string

	meta   schema.Meta
	fields []schema.Field
}

// NewDocument returns an empty document with the given metadata.
func NewDocument(meta schema.Meta) *Document {
	return &Document{meta: meta.Clone()}
}

// AddField appends a field declaration.
func (d *Document) AddField(f schema.Field) *Document {
	d.fields = append(d.fields, f)
	return d
}

// Meta implements schema.Definition.
func (d *Document) Meta() schema.Meta { return d.meta.Clone() }

// Fields implements schema.Definition.
func (d *Document) Fields() []schema.Field {
	return append([]schema.Field(nil), d.fields...)
}

// Name returns the definition name.
func (d *Document) Name() string { return d.meta.Name }

var _ schema.Definition = (*Document)(nil)
