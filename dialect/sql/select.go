package sql

import (
	"strings"

	"github.com/syssam/domainschema/dialect"
	"github.com/syssam/domainschema/schema"
)

// Selection selects a field. A selection with nested fields selects from the
// schema the field references.
type Selection struct {
	Field  string
	Fields []Selection
}

// Columns returns a selection of plain fields.
func Columns(fields ...string) []Selection {
	sel := make([]Selection, len(fields))
	for i, f := range fields {
		sel[i] = Selection{Field: f}
	}
	return sel
}

// Nested returns a selection of fields of the schema referenced by field.
func Nested(field string, fields ...Selection) Selection {
	return Selection{Field: field, Fields: fields}
}

// Column is a selected column.
type Column struct {
	Table string
	Name  string
	As    string
}

// Join is a LEFT JOIN of a referenced table.
type Join struct {
	Table string
	// On compares Column of Table with RefColumn of RefTable.
	Column    string
	RefTable  string
	RefColumn string
}

// Selector is a SELECT statement over the tables of a schema.
type Selector struct {
	dialect string
	Table   string
	Columns []Column
	Joins   []Join
}

// Select returns the statement selecting sel from the table of def. Nested
// selections join the referenced tables. The fields of a transient schema
// live in the table hosting it, so it is never joined and only its schema
// fields can be selected through it.
//
//	s, err := p.Select(Category{}, sql.Selection{Field: "name"}, sql.Nested("products", sql.Columns("name")...))
//	// SELECT `category`.`name` AS `name`, `product`.`name` AS `products_name`
//	// FROM `category` LEFT JOIN `product` ON `product`.`category_id` = `category`.`id`
func (p *Planner) Select(def schema.Definition, sel ...Selection) (*Selector, error) {
	root, err := schema.Normalize(def)
	if err != nil {
		return nil, err
	}
	if root.Meta().Transient {
		return nil, &TransientError{Schema: root.Name()}
	}
	s := &Selector{dialect: p.dialect, Table: tableName(root)}
	if err := s.walk(root, s.Table, sel, nil, map[string]bool{root.Name(): true}); err != nil {
		return nil, err
	}
	p.logger.Debug("sql select", "table", s.Table, "columns", len(s.Columns), "joins", len(s.Joins))
	return s, nil
}

// walk adds the columns of sel. table hosts the fields of sc.
func (s *Selector) walk(sc *schema.Schema, table string, sel []Selection, path []string, seen map[string]bool) error {
	transient := sc.Meta().Transient
	for _, f := range sel {
		v, ok := sc.Value(f.Field)
		if !ok {
			return &SelectError{Schema: sc.Name(), Field: f.Field, Reason: "unknown field"}
		}
		if len(f.Fields) == 0 {
			if v.Transient || transient {
				continue
			}
			if v.IsSchema() && !v.Blackbox {
				return &SelectError{Schema: sc.Name(), Field: f.Field, Reason: "schema field selected without nested fields"}
			}
			s.Columns = append(s.Columns, Column{Table: table, Name: columnName(f.Field), As: alias(path, f.Field)})
			continue
		}
		if !v.IsSchema() || v.Blackbox || v.External {
			return &SelectError{Schema: sc.Name(), Field: f.Field, Reason: "nested selection of a non-joinable field"}
		}
		ref := v.Type.Underlying().Schema()
		if seen[ref.Name()] {
			return &SelectError{Schema: sc.Name(), Field: f.Field, Reason: "schema already joined"}
		}
		host := table
		if !ref.Meta().Transient {
			host = tableName(ref)
			j := Join{Table: host, Column: table + "_id", RefTable: table, RefColumn: "id"}
			if !v.IsArray() {
				j = Join{Table: host, Column: "id", RefTable: table, RefColumn: columnName(f.Field) + "_id"}
			}
			s.Joins = append(s.Joins, j)
		}
		seen[ref.Name()] = true
		if err := s.walk(ref, host, f.Fields, append(path, f.Field), seen); err != nil {
			return err
		}
	}
	return nil
}

func alias(path []string, field string) string {
	if len(path) == 0 {
		return field
	}
	return strings.Join(path, "_") + "_" + field
}

// String returns the SQL statement.
func (s *Selector) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, c := range s.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.quote(c.Table) + "." + s.quote(c.Name) + " AS " + s.quote(c.As))
	}
	if len(s.Columns) == 0 {
		b.WriteString(s.quote(s.Table) + ".*")
	}
	b.WriteString(" FROM " + s.quote(s.Table))
	for _, j := range s.Joins {
		b.WriteString(" LEFT JOIN " + s.quote(j.Table) + " ON " +
			s.quote(j.Table) + "." + s.quote(j.Column) + " = " +
			s.quote(j.RefTable) + "." + s.quote(j.RefColumn))
	}
	return b.String()
}

func (s *Selector) quote(ident string) string {
	if s.dialect == dialect.Postgres {
		return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
	}
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
