package load

import (
	"fmt"

	"github.com/syssam/domainschema/schema"
)

// Catalog is the set of definitions loaded together.
type Catalog struct {
	docs   []*Document
	byName map[string]*Document
}

func newCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*Document)}
}

// Documents returns the loaded documents in load order.
func (c *Catalog) Documents() []*Document {
	return append([]*Document(nil), c.docs...)
}

// Definitions returns the loaded definitions in load order.
func (c *Catalog) Definitions() []schema.Definition {
	defs := make([]schema.Definition, len(c.docs))
	for i, d := range c.docs {
		defs[i] = d
	}
	return defs
}

// Lookup returns the document with the given name.
func (c *Catalog) Lookup(name string) (*Document, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Names returns the names of the loaded definitions in load order. Nameless
// definitions are skipped.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.docs))
	for _, d := range c.docs {
		if d.Name() != "" {
			names = append(names, d.Name())
		}
	}
	return names
}

// Len returns the number of loaded definitions.
func (c *Catalog) Len() int { return len(c.docs) }

// Normalize normalizes the named definition, or every definition when no
// name is given. Definitions share one registry, so references between them
// resolve to the same schemas.
func (c *Catalog) Normalize(names ...string) ([]*schema.Schema, error) {
	defs := c.Definitions()
	if len(names) > 0 {
		defs = defs[:0:0]
		for _, name := range names {
			d, ok := c.Lookup(name)
			if !ok {
				return nil, &ReferenceError{Name: name}
			}
			defs = append(defs, d)
		}
	}
	r := schema.NewRegistry()
	schemas := make([]*schema.Schema, 0, len(defs))
	for _, d := range defs {
		s, err := r.Normalize(d)
		if err != nil {
			if doc, ok := d.(*Document); ok && doc.Pos != "" {
				return nil, fmt.Errorf("load: %s: %w", doc.Pos, err)
			}
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func (c *Catalog) lookupDef(name string) (schema.Definition, bool) {
	d, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return d, true
}
