package schema

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
)

// Normalize resolves a raw definition into its canonical *Schema. References
// to other definitions are resolved recursively; within one call every
// definition maps to exactly one *Schema, which makes self and mutual
// references safe. An already normalized schema is returned unchanged.
func Normalize(def Definition) (*Schema, error) {
	return NewNormalizer().Normalize(def)
}

// Normalizer normalizes definitions. The zero value is not usable; use
// NewNormalizer.
type Normalizer struct {
	logger *slog.Logger
	seed   map[Definition]*Schema
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithLogger sets the logger used for traversal records.
func WithLogger(l *slog.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// withSeed primes every call with already normalized schemas.
func withSeed(seed map[Definition]*Schema) NormalizerOption {
	return func(n *Normalizer) { n.seed = seed }
}

// NewNormalizer returns a Normalizer. Records go to slog.Default unless
// WithLogger is given.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{logger: slog.Default()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize resolves def with a fresh memo. Any error aborts the whole call
// and no partial result is returned.
func (n *Normalizer) Normalize(def Definition) (*Schema, error) {
	s, _, err := n.normalize(def)
	return s, err
}

// normalize is Normalize that also returns the memo, so that callers caching
// across calls can keep every schema resolved on the way.
func (n *Normalizer) normalize(def Definition) (*Schema, map[Definition]*Schema, error) {
	memo := make(map[Definition]*Schema, len(n.seed)+1)
	maps.Copy(memo, n.seed)
	w := &walker{logger: n.logger, memo: memo, building: make(map[string]*Schema)}
	s, err := w.resolve(def, "")
	if err != nil {
		return nil, nil, err
	}
	return s, memo, nil
}

// walker carries the memo of one normalization call. building holds the
// schemas whose fields are being resolved, by name.
type walker struct {
	logger   *slog.Logger
	memo     map[Definition]*Schema
	building map[string]*Schema
}

// resolve normalizes def. field is the qualified field referencing def, used
// for diagnostics only.
func (w *walker) resolve(def Definition, field string) (*Schema, error) {
	if s, ok := def.(*Schema); ok && s != nil {
		remember(w.memo, s)
		return s, nil
	}
	if !hashable(def) {
		return nil, NewSchemaTypeError(def, field, nil)
	}
	if s, ok := w.memo[def]; ok {
		return s, nil
	}
	meta, err := safeMeta(def)
	if err != nil {
		return nil, NewSchemaTypeError(def, field, err)
	}
	if meta.Name == "" {
		return nil, &MissingNameError{Schema: fmt.Sprintf("%T", def), Field: field}
	}
	// A definition value seen again under another identity, such as a fresh
	// pointer built by Fields, closes the cycle on the schema in progress.
	if s, ok := w.building[meta.Name]; ok {
		if reflect.TypeOf(s.def) != reflect.TypeOf(def) {
			return nil, NewSchemaTypeError(def, field,
				fmt.Errorf("name %q is already used by %T", meta.Name, s.def))
		}
		w.memo[def] = s
		return s, nil
	}
	decls, err := declarations(def)
	if err != nil {
		return nil, NewSchemaTypeError(def, field, err)
	}
	s := &Schema{
		def:    def,
		meta:   meta.Clone(),
		values: make([]Descriptor, 0, len(decls)),
		index:  make(map[string]int, len(decls)),
	}
	// Registered before the fields are resolved so that back references
	// land on this instance.
	w.memo[def] = s
	w.building[meta.Name] = s
	defer delete(w.building, meta.Name)
	w.logger.Debug("normalizing schema", "schema", meta.Name, "fields", len(decls))
	for i, d := range decls {
		if d == nil {
			return nil, &MissingTypeError{Schema: meta.Name, Field: fmt.Sprintf("#%d", i)}
		}
		if d.Name == MetaKey {
			continue
		}
		if _, ok := s.index[d.Name]; ok {
			return nil, &DuplicateFieldError{Schema: meta.Name, Field: d.Name}
		}
		typ, err := w.fieldType(meta.Name, d.Name, d.Type)
		if err != nil {
			return nil, err
		}
		s.index[d.Name] = len(s.values)
		s.values = append(s.values, Descriptor{
			Name:        d.Name,
			Type:        typ,
			Optional:    d.Optional,
			Unique:      d.Unique,
			Default:     d.Default,
			Max:         d.Max,
			Private:     d.Private,
			Transient:   d.Transient,
			External:    d.External,
			Blackbox:    d.Blackbox,
			Annotations: maps.Clone(d.Annotations),
		})
	}
	return s, nil
}

// fieldType resolves the declared type of schema.field.
func (w *walker) fieldType(schema, field string, t Type) (FieldType, error) {
	switch t.tag {
	case tagArray:
		if len(t.elems) != 1 {
			return FieldType{}, &ArrayArityError{Schema: schema, Field: field, Count: len(t.elems)}
		}
		elem := t.elems[0]
		if elem.tag == tagArray {
			return FieldType{}, &ArrayArityError{Schema: schema, Field: field, Count: 1, Nested: true}
		}
		et, err := w.fieldType(schema, field, elem)
		if err != nil {
			return FieldType{}, err
		}
		return ArrayType(et), nil
	case tagRef:
		if t.ref == nil {
			return FieldType{}, NewSchemaTypeError(nil, schema+"."+field, nil)
		}
		ref, err := w.resolve(t.ref, schema+"."+field)
		if err != nil {
			return FieldType{}, err
		}
		return SchemaType(ref), nil
	case tagPrimitive:
		if !t.kind.Valid() {
			return FieldType{}, &MissingTypeError{Schema: schema, Field: field}
		}
		return PrimitiveType(t.kind), nil
	default:
		return FieldType{}, &MissingTypeError{Schema: schema, Field: field}
	}
}

// remember adds s and the schemas it reaches to memo under their
// definitions, keeping entries already present.
func remember(memo map[Definition]*Schema, s *Schema) {
	visited := make(map[*Schema]bool)
	var walk func(*Schema)
	walk = func(s *Schema) {
		if visited[s] {
			return
		}
		visited[s] = true
		if s.def != nil && hashable(s.def) {
			if _, ok := memo[s.def]; !ok {
				memo[s.def] = s
			}
		}
		for _, v := range s.values {
			if ref := v.Type.Underlying().Schema(); ref != nil {
				walk(ref)
			}
		}
	}
	walk(s)
}

// declarations returns the mixin declarations followed by the definition's
// own declarations.
func declarations(def Definition) ([]*Declaration, error) {
	var decls []*Declaration
	if mx, ok := def.(Mixer); ok {
		mixins, err := safeMixins(mx)
		if err != nil {
			return nil, err
		}
		for _, m := range mixins {
			if m == nil {
				continue
			}
			fields, err := safeFields(m)
			if err != nil {
				return nil, err
			}
			if decls, err = appendDecls(decls, fields); err != nil {
				return nil, err
			}
		}
	}
	fields, err := safeFields(def)
	if err != nil {
		return nil, err
	}
	return appendDecls(decls, fields)
}

func appendDecls(decls []*Declaration, fields []Field) ([]*Declaration, error) {
	for _, f := range fields {
		if f == nil {
			decls = append(decls, nil)
			continue
		}
		d, err := safeDeclaration(f)
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// hashable reports whether def can be used as a memo key.
func hashable(def Definition) bool {
	if def == nil {
		return false
	}
	return reflect.ValueOf(def).Comparable()
}

// safeMeta calls Meta and converts a panic into an error.
func safeMeta(def Definition) (m Meta, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Meta panics: %v", def, v)
		}
	}()
	return def.Meta(), nil
}

// safeFields calls Fields and converts a panic into an error.
func safeFields(fs interface{ Fields() []Field }) (fields []Field, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Fields panics: %v", fs, v)
		}
	}()
	return fs.Fields(), nil
}

// safeMixins calls Mixin and converts a panic into an error.
func safeMixins(mx Mixer) (mixins []Mixin, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Mixin panics: %v", mx, v)
		}
	}()
	return mx.Mixin(), nil
}

// safeDeclaration calls Declaration and converts a panic into an error.
func safeDeclaration(f Field) (d *Declaration, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Declaration panics: %v", f, v)
		}
	}()
	return f.Declaration(), nil
}
