package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/domainschema/schema"
	"github.com/syssam/domainschema/schema/field"
)

const uuidPkg = "github.com/google/uuid"

// Generator emits Go model structs for normalized schemas.
//
//	g, err := gen.NewGenerator(gen.WithPackage("catalog"), gen.WithUUIDIDs(true))
//	if err != nil {
//	    return err
//	}
//	files, err := g.Write(ctx, "internal/catalog", Product{})
type Generator struct {
	cfg *Config
}

// NewGenerator returns a generator configured with opts.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the configuration of the generator.
func (g *Generator) Config() Config { return *g.cfg }

// File is the model of one schema.
type File struct {
	// Name is the file name, <type>.go.
	Name string
	// Type is the name of the generated struct.
	Type   string
	Schema *schema.Schema
	Code   *jen.File
}

// Files returns one file per schema reachable from defs. Excluded schemas
// have no model; fields referencing them are typed map[string]any, like
// blackbox fields.
func (g *Generator) Files(defs ...schema.Definition) ([]*File, error) {
	r := schema.NewRegistry(schema.WithLogger(g.cfg.Logger))
	var (
		files []*File
		seen  = make(map[string]bool)
		queue []*schema.Schema
	)
	for _, def := range defs {
		root, err := r.Normalize(def)
		if err != nil {
			return nil, &GenerationError{Phase: PhaseNormalize, Cause: err}
		}
		queue = append(queue, root)
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s.Name()] {
			continue
		}
		seen[s.Name()] = true
		for _, v := range s.Values() {
			if ft := v.Type.Underlying(); ft.IsSchema() && !v.Blackbox && !v.External {
				queue = append(queue, ft.Schema())
			}
		}
		if s.Meta().Exclude {
			g.cfg.Logger.Warn("gen skip excluded schema", "schema", s.Name())
			continue
		}
		f, err := g.model(s)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// model builds the file of s.
func (g *Generator) model(s *schema.Schema) (*File, error) {
	name := GoName(s.Name())
	f := jen.NewFile(g.cfg.Package)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	var fieldErr error
	f.Commentf("%s is the model of the %s schema.", name, s.Name())
	f.Type().Id(name).StructFunc(func(group *jen.Group) {
		for _, v := range s.Values() {
			typ, err := g.goType(s, v)
			if err != nil {
				fieldErr = err
				return
			}
			fieldName := GoName(v.Name)
			if v.External {
				fieldName += "ID"
			}
			group.Id(fieldName).Add(typ).Tag(structTags(v))
		}
	})
	if fieldErr != nil {
		return nil, &GenerationError{Phase: PhaseModel, Schema: s.Name(), Cause: fieldErr}
	}
	g.cfg.Logger.Debug("gen model", "schema", s.Name(), "type", name)
	return &File{
		Name:   inflect.Underscore(s.Name()) + ".go",
		Type:   name,
		Schema: s,
		Code:   f,
	}, nil
}

// goType returns the Go type of v. Optional scalars and references are
// pointers.
func (g *Generator) goType(s *schema.Schema, v schema.Descriptor) (jen.Code, error) {
	t := v.Type
	if v.IsArray() {
		t = t.Elem()
	}
	typ, err := g.baseType(s, v, t)
	if err != nil {
		return nil, err
	}
	ref := t.IsSchema() && !v.External && !opaque(v)
	switch {
	case v.IsArray() && ref:
		return jen.Index().Op("*").Add(typ), nil
	case v.IsArray():
		return jen.Index().Add(typ), nil
	case v.Optional || ref:
		return jen.Op("*").Add(typ), nil
	default:
		return typ, nil
	}
}

func (g *Generator) baseType(s *schema.Schema, v schema.Descriptor, t schema.FieldType) (jen.Code, error) {
	switch {
	case t.IsSchema() && v.External:
		return g.idType(), nil
	case t.IsSchema() && opaque(v):
		return jen.Map(jen.String()).Any(), nil
	case t.IsSchema():
		return jen.Id(GoName(t.Schema().Name())), nil
	}
	switch t.Kind() {
	case schema.KindBoolean:
		return jen.Bool(), nil
	case schema.KindInteger:
		return jen.Int64(), nil
	case schema.KindFloat:
		return jen.Float64(), nil
	case schema.KindString:
		return jen.String(), nil
	case schema.KindID:
		return g.idType(), nil
	case schema.KindDate, schema.KindDateTime, schema.KindTime:
		return jen.Qual("time", "Time"), nil
	default:
		return nil, &schema.UnknownTypeError{Schema: s.Name(), Field: v.Name, Type: t.String()}
	}
}

func (g *Generator) idType() jen.Code {
	if g.cfg.UUIDIDs {
		return jen.Qual(uuidPkg, "UUID")
	}
	return jen.String()
}

// opaque reports whether the schema referenced by v is stored as a plain
// JSON object.
func opaque(v schema.Descriptor) bool {
	if v.Blackbox {
		return true
	}
	ref := v.Type.Underlying().Schema()
	return ref != nil && (ref.Meta().Exclude || ref.Meta().Blackbox)
}

func structTags(v schema.Descriptor) map[string]string {
	json := v.Name
	if v.Optional {
		json += ",omitempty"
	}
	if v.Private {
		json = "-"
	}
	tags := map[string]string{"json": json}
	for k, val := range field.StructTags(v) {
		tags[k] = val
	}
	return tags
}

// initialisms are written in upper case in Go identifiers.
var initialisms = map[string]bool{
	"api": true, "db": true, "html": true, "http": true, "id": true, "ip": true,
	"json": true, "sku": true, "sql": true, "uri": true, "url": true, "uuid": true,
}

// GoName returns the exported Go identifier of a schema or field name.
//
//	GoName("category_id") // CategoryID
//	GoName("displayName") // DisplayName
func GoName(name string) string {
	var b strings.Builder
	for _, w := range strings.Split(inflect.Underscore(name), "_") {
		switch {
		case w == "":
		case initialisms[w]:
			b.WriteString(strings.ToUpper(w))
		default:
			b.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	if b.Len() == 0 {
		return "X"
	}
	return b.String()
}
