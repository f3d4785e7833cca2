package load

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/syssam/domainschema/schema"
)

// Extensions lists the file extensions picked up by ParseDir.
var Extensions = []string{".yaml", ".yml", ".json"}

// Descriptor keys with a dedicated Declaration field. Any other key of a
// field mapping is kept as an annotation.
const (
	keyType      = "type"
	keyOptional  = "optional"
	keyUnique    = "unique"
	keyDefault   = "default"
	keyMax       = "max"
	keyPrivate   = "private"
	keyTransient = "transient"
	keyExternal  = "external"
	keyBlackbox  = "blackbox"
)

// Meta block keys.
const (
	metaName      = "name"
	metaTransient = "transient"
	metaExclude   = "exclude"
	metaBlackbox  = "blackbox"
)

type (
	// rawDef is a parsed, unresolved definition.
	rawDef struct {
		pos    string
		meta   schema.Meta
		fields []rawField
	}
	// rawField is a parsed field whose type is still a YAML node.
	rawField struct {
		pos  string
		decl schema.Declaration
		typ  *yaml.Node
	}
)

// ParseFile parses a single schema document.
func ParseFile(path string) (*Catalog, error) {
	return ParseFiles(context.Background(), path)
}

// Parse parses schema documents from data. Positions are reported as
// <input>:line.
func Parse(data []byte) (*Catalog, error) {
	defs, err := parse("<input>", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return resolve(defs)
}

// ParseFiles reads and parses the given files concurrently, then resolves
// type names across all of them. Definitions keep file order.
func ParseFiles(ctx context.Context, paths ...string) (*Catalog, error) {
	parsed := make([][]*rawDef, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			defer f.Close()
			defs, err := parse(path, f)
			if err != nil {
				return err
			}
			slog.Debug("parsed schema file", "file", path, "definitions", len(defs))
			parsed[i] = defs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolve(slices.Concat(parsed...))
}

// ParseDir parses every schema file of dir, in lexical order.
func ParseDir(ctx context.Context, dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(Extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("load: no schema files in %s", dir)
	}
	return ParseFiles(ctx, paths...)
}

// ParseType parses a type expression: a primitive kind (Int, String, ...), a
// definition name resolved with lookup, or an array written as [Elem].
// Arrays keep all listed elements; arity is checked on normalization.
func ParseType(expr string, lookup func(string) (schema.Definition, bool)) (schema.Type, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return schema.Type{}, nil
	case strings.HasPrefix(expr, "[") && strings.HasSuffix(expr, "]"):
		inner := strings.TrimSpace(expr[1 : len(expr)-1])
		if inner == "" {
			return schema.ArrayOf(), nil
		}
		parts := splitTopLevel(inner)
		elems := make([]schema.Type, 0, len(parts))
		for _, p := range parts {
			t, err := ParseType(p, lookup)
			if err != nil {
				return schema.Type{}, err
			}
			elems = append(elems, t)
		}
		return schema.ArrayOf(elems...), nil
	}
	if k, ok := schema.ParseKind(expr); ok {
		return schema.Primitive(k), nil
	}
	if lookup != nil {
		if def, ok := lookup(expr); ok {
			return schema.RefTo(def), nil
		}
	}
	return schema.Type{}, &ReferenceError{Name: expr}
}

// splitTopLevel splits s on commas that are not nested in brackets.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// parse decodes every YAML document of r.
func parse(file string, r io.Reader) ([]*rawDef, error) {
	var defs []*rawDef
	dec := yaml.NewDecoder(r)
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return defs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load: %s: %w", file, err)
		}
		root := &doc
		if root.Kind == yaml.DocumentNode {
			if len(root.Content) == 0 {
				continue
			}
			root = root.Content[0]
		}
		parsed, err := parseRoot(file, root)
		if err != nil {
			return nil, err
		}
		defs = append(defs, parsed...)
	}
}

// parseRoot accepts a sequence of definitions, or a mapping from definition
// names to definitions.
func parseRoot(file string, root *yaml.Node) ([]*rawDef, error) {
	root = deref(root)
	switch root.Kind {
	case yaml.SequenceNode:
		defs := make([]*rawDef, 0, len(root.Content))
		for _, n := range root.Content {
			d, err := parseDef(file, "", deref(n))
			if err != nil {
				return nil, err
			}
			defs = append(defs, d)
		}
		return defs, nil
	case yaml.MappingNode:
		defs := make([]*rawDef, 0, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			d, err := parseDef(file, root.Content[i].Value, deref(root.Content[i+1]))
			if err != nil {
				return nil, err
			}
			defs = append(defs, d)
		}
		return defs, nil
	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("load: %s: expected a list or a map of definitions", pos(file, root))
}

// parseDef parses one definition mapping. name is the default name taken
// from the enclosing mapping key, if any.
func parseDef(file, name string, n *yaml.Node) (*rawDef, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("load: %s: definition must be a map of fields", pos(file, n))
	}
	d := &rawDef{pos: pos(file, n), meta: schema.Meta{Name: name}}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], deref(n.Content[i+1])
		if key.Value == schema.MetaKey {
			if err := parseMeta(file, value, &d.meta); err != nil {
				return nil, err
			}
			continue
		}
		f, err := parseField(file, key, value)
		if err != nil {
			return nil, err
		}
		d.fields = append(d.fields, f)
	}
	return d, nil
}

// parseMeta parses the metadata block. A scalar is a shorthand for the name.
func parseMeta(file string, n *yaml.Node, meta *schema.Meta) error {
	switch n.Kind {
	case yaml.ScalarNode:
		meta.Name = n.Value
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("load: %s: %q must be a map", pos(file, n), schema.MetaKey)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, deref(n.Content[i+1])
		var err error
		switch key {
		case metaName:
			err = value.Decode(&meta.Name)
		case metaTransient:
			err = value.Decode(&meta.Transient)
		case metaExclude:
			err = value.Decode(&meta.Exclude)
		case metaBlackbox:
			err = value.Decode(&meta.Blackbox)
		default:
			var v any
			if err = value.Decode(&v); err == nil {
				if meta.Extra == nil {
					meta.Extra = make(map[string]any)
				}
				meta.Extra[key] = v
			}
		}
		if err != nil {
			return fmt.Errorf("load: %s: %s.%s: %w", pos(file, value), schema.MetaKey, key, err)
		}
	}
	return nil
}

// parseField parses a field. A scalar or a sequence is the field type; a
// mapping is a descriptor with an optional type key.
func parseField(file string, key, n *yaml.Node) (rawField, error) {
	f := rawField{pos: pos(file, key), decl: schema.Declaration{Name: key.Value}}
	if n.Kind != yaml.MappingNode {
		f.typ = n
		return f, nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, value := n.Content[i].Value, deref(n.Content[i+1])
		var err error
		switch k {
		case keyType:
			f.typ = value
		case keyOptional:
			err = value.Decode(&f.decl.Optional)
		case keyUnique:
			err = value.Decode(&f.decl.Unique)
		case keyDefault:
			err = value.Decode(&f.decl.Default)
		case keyMax:
			err = value.Decode(&f.decl.Max)
		case keyPrivate:
			err = value.Decode(&f.decl.Private)
		case keyTransient:
			err = value.Decode(&f.decl.Transient)
		case keyExternal:
			err = value.Decode(&f.decl.External)
		case keyBlackbox:
			err = value.Decode(&f.decl.Blackbox)
		default:
			var v any
			if err = value.Decode(&v); err == nil {
				if f.decl.Annotations == nil {
					f.decl.Annotations = make(map[string]any)
				}
				f.decl.Annotations[k] = v
			}
		}
		if err != nil {
			return f, fmt.Errorf("load: %s: field %s.%s: %w", pos(file, value), key.Value, k, err)
		}
	}
	return f, nil
}

// resolve registers all definitions by name and resolves field types.
func resolve(defs []*rawDef) (*Catalog, error) {
	c := newCatalog()
	docs := make([]*Document, len(defs))
	for i, d := range defs {
		doc := NewDocument(d.meta)
		doc.Pos = d.pos
		if name := d.meta.Name; name != "" {
			if prev, ok := c.byName[name]; ok {
				return nil, &DuplicateError{Name: name, Pos: d.pos, Prev: prev.Pos}
			}
			c.byName[name] = doc
		}
		docs[i] = doc
		c.docs = append(c.docs, doc)
	}
	for i, d := range defs {
		for _, f := range d.fields {
			typ, err := c.typeOf(f.typ)
			if err != nil {
				var ref *ReferenceError
				if errors.As(err, &ref) {
					ref.Pos, ref.Schema, ref.Field = f.pos, d.meta.Name, f.decl.Name
				}
				return nil, err
			}
			decl := f.decl
			decl.Type = typ
			docs[i].AddField(&decl)
		}
	}
	return c, nil
}

// typeOf resolves a type node. A missing or null node is an unset type.
func (c *Catalog) typeOf(n *yaml.Node) (schema.Type, error) {
	if n == nil {
		return schema.Type{}, nil
	}
	n = deref(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return schema.Type{}, nil
		}
		return ParseType(n.Value, c.lookupDef)
	case yaml.SequenceNode:
		elems := make([]schema.Type, 0, len(n.Content))
		for _, e := range n.Content {
			t, err := c.typeOf(e)
			if err != nil {
				return schema.Type{}, err
			}
			elems = append(elems, t)
		}
		return schema.ArrayOf(elems...), nil
	default:
		return schema.Type{}, fmt.Errorf("load: line %d: type must be a name or a list", n.Line)
	}
}

// deref follows YAML aliases.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func pos(file string, n *yaml.Node) string {
	return fmt.Sprintf("%s:%d", file, n.Line)
}
