package field

import (
	"maps"

	"github.com/syssam/domainschema/schema"
)

// Annotation carries Go code generation settings for a field.
type Annotation struct {
	// StructTag holds extra struct tags keyed by tag name, for example
	// {"xml": "email,attr"}. A "json" entry replaces the generated json tag.
	StructTag map[string]string
}

// Name implements schema.Annotation.
func (Annotation) Name() string { return "Fields" }

// Merge implements schema.Merger. Tags of other win.
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
	if len(ant.StructTag) > 0 {
		tags := maps.Clone(a.StructTag)
		if tags == nil {
			tags = make(map[string]string, len(ant.StructTag))
		}
		maps.Copy(tags, ant.StructTag)
		a.StructTag = tags
	}
	return a
}

// StructTag adds an extra struct tag to the generated Go field.
//
//	field.String("email").StructTag("xml", "email,attr")
func (b *Builder) StructTag(key, value string) *Builder {
	return b.Annotations(Annotation{StructTag: map[string]string{key: value}})
}

// StructTags returns the struct tags annotated on a normalized field.
func StructTags(d schema.Descriptor) map[string]string {
	switch ant := d.Annotations[Annotation{}.Name()].(type) {
	case Annotation:
		return maps.Clone(ant.StructTag)
	case *Annotation:
		if ant != nil {
			return maps.Clone(ant.StructTag)
		}
	}
	return nil
}
