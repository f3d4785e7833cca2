package graphql

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/domainschema/schema"
)

// ScalarJSON is the scalar used for blackbox fields.
const ScalarJSON = "JSON"

// builtinScalars are defined by every GraphQL schema.
var builtinScalars = []string{"Boolean", "ID", "Int", "Float", "String"}

// scalarNames maps primitive kinds to GraphQL scalars.
var scalarNames = map[schema.Kind]string{
	schema.KindBoolean:  "Boolean",
	schema.KindID:       "ID",
	schema.KindInteger:  "Int",
	schema.KindFloat:    "Float",
	schema.KindString:   "String",
	schema.KindDate:     "Date",
	schema.KindDateTime: "DateTime",
	schema.KindTime:     "Time",
}

// Generator emits GraphQL type definitions for normalized schemas.
//
//	g, err := graphql.NewGenerator(graphql.WithDeep(true))
//	if err != nil {
//	    return err
//	}
//	sdl, err := g.Generate(Product{})
type Generator struct {
	deep    bool
	scalars bool
	logger  *slog.Logger
}

// Option configures the Generator.
type Option func(*Generator) error

// WithDeep controls whether referenced schemas are emitted too. Defaults
// to true.
func WithDeep(deep bool) Option {
	return func(g *Generator) error {
		g.deep = deep
		return nil
	}
}

// WithScalars controls whether scalar declarations are emitted for the
// non built-in scalars in use. Defaults to true.
func WithScalars(scalars bool) Option {
	return func(g *Generator) error {
		g.scalars = scalars
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) error {
		if l == nil {
			return fmt.Errorf("graphql: nil logger")
		}
		g.logger = l
		return nil
	}
}

// NewGenerator creates a new Generator with the given options.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{deep: true, scalars: true, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Generate returns the SDL of the given definitions and, when deep, of the
// schemas they reference.
func (g *Generator) Generate(defs ...schema.Definition) (string, error) {
	doc, err := g.Document(defs...)
	if err != nil {
		return "", err
	}
	return Format(doc), nil
}

// Format returns the SDL of doc, indented with two spaces.
func Format(doc *ast.SchemaDocument) string {
	var b strings.Builder
	formatter.NewFormatter(&b, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	return b.String()
}

// Document returns the schema document of the given definitions. Referenced
// types are emitted before the types referencing them; each type once.
func (g *Generator) Document(defs ...schema.Definition) (*ast.SchemaDocument, error) {
	r := schema.NewRegistry(schema.WithLogger(g.logger))
	w := &walk{
		Generator: g,
		seen:      make(map[string]bool),
		scalars:   make(map[string]bool),
	}
	for _, d := range defs {
		s, err := r.Normalize(d)
		if err != nil {
			return nil, fmt.Errorf("graphql: %w", err)
		}
		if err := w.emit(s); err != nil {
			return nil, err
		}
	}
	doc := &ast.SchemaDocument{}
	if g.scalars {
		names := make([]string, 0, len(w.scalars))
		for name := range w.scalars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
		}
	}
	doc.Definitions = append(doc.Definitions, w.types...)
	return doc, nil
}

// walk holds the state of one Document call.
type walk struct {
	*Generator
	seen    map[string]bool
	scalars map[string]bool
	types   ast.DefinitionList
}

// emit appends the type of s after the types it references.
func (w *walk) emit(s *schema.Schema) error {
	meta := s.Meta()
	ant := annotationOf(meta.Extra)
	if w.seen[meta.Name] || meta.Exclude || ant.Skip {
		return nil
	}
	w.seen[meta.Name] = true
	w.logger.Debug("graphql type", "schema", meta.Name)
	def := &ast.Definition{
		Kind:        ast.Object,
		Name:        typeName(s),
		Description: ant.Description,
		Interfaces:  slices.Clone(ant.Implements),
		Directives:  directives(ant.Directives),
	}
	for _, v := range s.Values() {
		fa := annotationOf(v.Annotations)
		if v.Private || fa.Skip {
			continue
		}
		typ, err := w.fieldType(s.Name(), v, fa, v.Type)
		if err != nil {
			return err
		}
		name := v.Name
		if fa.FieldName != "" {
			name = fa.FieldName
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        name,
			Type:        typ,
			Description: fa.Description,
			Directives:  directives(fa.Directives),
		})
	}
	w.types = append(w.types, def)
	return nil
}

// fieldType maps t. Array elements share the nullability of the field.
func (w *walk) fieldType(owner string, v schema.Descriptor, fa Annotation, t schema.FieldType) (*ast.Type, error) {
	var named string
	switch {
	case t.IsArray():
		elem, err := w.fieldType(owner, v, fa, t.Elem())
		if err != nil {
			return nil, err
		}
		if v.Optional {
			return ast.ListType(elem, nil), nil
		}
		return ast.NonNullListType(elem, nil), nil
	case fa.Type != "":
		named = fa.Type
		w.useScalar(named)
	case t.IsSchema() && v.Blackbox:
		named = ScalarJSON
		w.useScalar(named)
	case t.IsSchema():
		ref := t.Schema()
		named = typeName(ref)
		if w.deep && !v.External {
			if err := w.emit(ref); err != nil {
				return nil, err
			}
		}
	default:
		scalar, ok := scalarNames[t.Kind()]
		if !ok {
			return nil, &schema.UnknownTypeError{Schema: owner, Field: v.Name, Type: t.String()}
		}
		named = scalar
		w.useScalar(named)
	}
	if v.Optional {
		return ast.NamedType(named, nil), nil
	}
	return ast.NonNullNamedType(named, nil), nil
}

// useScalar records a custom scalar. Object type names used through a
// field-level Type annotation are not known here and are declared as
// scalars only when they match a primitive mapping or the JSON scalar.
func (w *walk) useScalar(name string) {
	if slices.Contains(builtinScalars, name) {
		return
	}
	switch name {
	case "Date", "DateTime", "Time", ScalarJSON:
		w.scalars[name] = true
	}
}

// typeName returns the GraphQL name of s.
func typeName(s *schema.Schema) string {
	if ant := annotationOf(s.Meta().Extra); ant.Type != "" {
		return ant.Type
	}
	return s.Name()
}

func directives(dirs []Directive) ast.DirectiveList {
	if len(dirs) == 0 {
		return nil
	}
	list := make(ast.DirectiveList, 0, len(dirs))
	for _, d := range dirs {
		dir := &ast.Directive{Name: d.Name}
		keys := make([]string, 0, len(d.Args))
		for k := range d.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			dir.Arguments = append(dir.Arguments, &ast.Argument{Name: k, Value: value(d.Args[k])})
		}
		list = append(list, dir)
	}
	return list
}

func value(v any) *ast.Value {
	switch v := v.(type) {
	case string:
		return &ast.Value{Kind: ast.StringValue, Raw: v}
	case bool:
		return &ast.Value{Kind: ast.BooleanValue, Raw: strconv.FormatBool(v)}
	case int:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.Itoa(v)}
	case int64:
		return &ast.Value{Kind: ast.IntValue, Raw: strconv.FormatInt(v, 10)}
	case float64:
		return &ast.Value{Kind: ast.FloatValue, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
	default:
		return &ast.Value{Kind: ast.StringValue, Raw: fmt.Sprint(v)}
	}
}
