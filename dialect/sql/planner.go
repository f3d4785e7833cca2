package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"
	"github.com/go-openapi/inflect"

	"github.com/syssam/domainschema/dialect"
	"github.com/syssam/domainschema/dialect/sqlschema"
	"github.com/syssam/domainschema/schema"
)

// DefaultStringSize is the VARCHAR size of string columns without a max.
const DefaultStringSize = 255

// Timestamp columns added to every table.
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

type config struct {
	logger        *slog.Logger
	slowThreshold time.Duration
}

// Option configures a Planner or a Migrator.
type Option func(*config) error

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return fmt.Errorf("dialect/sql: nil logger")
		}
		c.logger = l
		return nil
	}
}

// WithSlowStatement sets the duration after which the migrator logs a
// statement as slow.
func WithSlowStatement(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("dialect/sql: invalid slow statement threshold %s", d)
		}
		c.slowThreshold = d
		return nil
	}
}

func newConfig(opts []Option) (*config, error) {
	c := &config{logger: slog.Default(), slowThreshold: time.Second}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Planner maps normalized schemas to the tables of a SQL dialect.
type Planner struct {
	dialect string
	logger  *slog.Logger
}

// NewPlanner returns a planner for the given dialect.
func NewPlanner(name string, opts ...Option) (*Planner, error) {
	d, err := dialect.Parse(name)
	if err != nil {
		return nil, err
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Planner{dialect: d, logger: cfg.logger}, nil
}

// Dialect returns the dialect of the planner.
func (p *Planner) Dialect() string { return p.dialect }

// Tables returns the tables of defs and of the schemas reachable from
// them. Tables are ordered so that referenced tables come first.
func (p *Planner) Tables(defs ...schema.Definition) ([]*atlas.Table, error) {
	r := schema.NewRegistry(schema.WithLogger(p.logger))
	b := &tableBuilder{
		Planner: p,
		tables:  make(map[string]*atlas.Table),
		seen:    make(map[string]bool),
	}
	for _, def := range defs {
		root, err := r.Normalize(def)
		if err != nil {
			return nil, err
		}
		if root.Meta().Transient {
			return nil, &TransientError{Schema: root.Name()}
		}
		b.visit(root, nil)
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	tables := b.resolve()
	result := ValidateTables(tables)
	for _, w := range result.Warnings {
		p.logger.Warn("table validation", "warning", w.Error())
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return sortTables(tables), nil
}

// TableNames returns the names of the tables created for defs.
func (p *Planner) TableNames(defs ...schema.Definition) ([]string, error) {
	tables, err := p.Tables(defs...)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names, nil
}

// PlanCreate returns the statements creating the tables of defs.
func (p *Planner) PlanCreate(ctx context.Context, defs ...schema.Definition) (*migrate.Plan, error) {
	tables, err := p.Tables(defs...)
	if err != nil {
		return nil, err
	}
	changes := make([]atlas.Change, len(tables))
	for i, t := range tables {
		changes[i] = &atlas.AddTable{T: t}
	}
	return p.plan(ctx, "create", changes)
}

// PlanDrop returns the statements dropping the tables of defs. Referencing
// tables are dropped first.
func (p *Planner) PlanDrop(ctx context.Context, defs ...schema.Definition) (*migrate.Plan, error) {
	tables, err := p.Tables(defs...)
	if err != nil {
		return nil, err
	}
	changes := make([]atlas.Change, len(tables))
	for i := range tables {
		changes[i] = &atlas.DropTable{T: tables[len(tables)-1-i]}
	}
	return p.plan(ctx, "drop", changes)
}

func (p *Planner) plan(ctx context.Context, name string, changes []atlas.Change) (*migrate.Plan, error) {
	var planner migrate.PlanApplier
	switch p.dialect {
	case dialect.SQLite:
		planner = sqlite.DefaultPlan
	case dialect.MySQL:
		planner = mysql.DefaultPlan
	case dialect.Postgres:
		planner = postgres.DefaultPlan
	}
	plan, err := planner.PlanChanges(ctx, name, changes)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: plan %s: %w", name, err)
	}
	return plan, nil
}

// tableName returns the table name of s.
func tableName(s *schema.Schema) string {
	if ant := sqlschema.Of(s.Meta().Extra); ant.Table != "" {
		return ant.Table
	}
	return inflect.Underscore(s.Name())
}

// columnName returns the column name of a field.
func columnName(field string) string {
	return inflect.Underscore(field)
}

// foreignKey is a reference column whose target table is known once every
// reachable schema was visited.
type foreignKey struct {
	table    *atlas.Table
	column   *atlas.Column
	ref      string
	onDelete sqlschema.CascadeAction
}

// tableBuilder holds the state of one Tables call.
type tableBuilder struct {
	*Planner
	order  []*atlas.Table
	tables map[string]*atlas.Table
	seen   map[string]bool
	fks    []foreignKey
	errs   []error
}

// visit adds the table of s. parent is the host of s when s is the element
// of an array field.
func (b *tableBuilder) visit(s *schema.Schema, parent *parentRef) {
	name := s.Name()
	meta := s.Meta()
	if sqlschema.Of(meta.Extra).Skip {
		return
	}
	if b.seen[name] {
		if t, ok := b.tables[name]; ok && parent != nil {
			b.parentKey(t, parent)
		}
		return
	}
	b.seen[name] = true
	if meta.Transient {
		// Children of a transient schema are hosted by its parent.
		b.fields(s, nil, parent)
		return
	}
	t := atlas.NewTable(tableName(s))
	b.order = append(b.order, t)
	b.tables[name] = t
	b.logger.Debug("sql table", "schema", name, "table", t.Name)

	id := atlas.NewColumn("id").SetType(b.pkType())
	switch b.dialect {
	case dialect.SQLite:
		id.AddAttrs(&sqlite.AutoIncrement{})
	case dialect.MySQL:
		id.AddAttrs(&mysql.AutoIncrement{})
	}
	t.AddColumns(id)
	t.SetPrimaryKey(atlas.NewPrimaryKey(id))
	if parent != nil {
		b.parentKey(t, parent)
	}
	b.fields(s, t, parent)
	for _, ts := range []string{CreatedAt, UpdatedAt} {
		if _, ok := t.Column(ts); ok {
			continue
		}
		t.AddColumns(atlas.NewColumn(ts).
			SetType(b.timeType(schema.KindDateTime)).
			SetDefault(&atlas.RawExpr{X: "CURRENT_TIMESTAMP"}))
	}
}

// parentRef is the host of an array element schema.
type parentRef struct {
	table    *atlas.Table
	onDelete sqlschema.CascadeAction
}

// parentKey adds the <parent>_id column of a one-to-many child, unless a
// reference already added it.
func (b *tableBuilder) parentKey(t *atlas.Table, parent *parentRef) {
	name := parent.table.Name + "_id"
	if _, ok := t.Column(name); ok {
		return
	}
	c := atlas.NewColumn(name).SetType(b.intType()).SetNull(true)
	t.AddColumns(c)
	b.fks = append(b.fks, foreignKey{table: t, column: c, ref: parent.table.Name, onDelete: parent.onDelete})
	b.logger.Debug("sql foreign key", "table", t.Name, "column", name, "references", parent.table.Name)
}

// fields adds the columns of s to t. A nil t is the transient case: only
// the schema fields are followed, hosted by parent.
func (b *tableBuilder) fields(s *schema.Schema, t *atlas.Table, parent *parentRef) {
	for _, v := range s.Values() {
		ant := sqlschema.Of(v.Annotations)
		if v.Name == "id" || v.Transient || ant.Skip {
			continue
		}
		col := columnName(v.Name)
		underlying := v.Type.Underlying()
		switch {
		case underlying.IsSchema() && v.Blackbox:
			if t != nil {
				b.column(t, col, v, ant, b.jsonType())
			}
		case underlying.IsSchema() && v.IsArray():
			if v.External {
				b.logger.Debug("sql skip external array", "schema", s.Name(), "field", v.Name)
				continue
			}
			host := parent
			if t != nil {
				host = &parentRef{table: t, onDelete: ant.OnDelete}
			}
			b.visit(underlying.Schema(), host)
		case underlying.IsSchema():
			ref := underlying.Schema()
			if v.External {
				if t != nil {
					b.column(t, col+"_id", v, ant, b.intType())
				}
				continue
			}
			if ref.Meta().Transient {
				host := parent
				if t != nil {
					host = &parentRef{table: t, onDelete: ant.OnDelete}
				}
				b.visit(ref, host)
				continue
			}
			b.visit(ref, nil)
			if t == nil || sqlschema.Of(ref.Meta().Extra).Skip {
				continue
			}
			name := col + "_id"
			if _, ok := t.Column(name); ok {
				continue
			}
			c := atlas.NewColumn(name).SetType(b.intType()).SetNull(true)
			t.AddColumns(c)
			b.fks = append(b.fks, foreignKey{table: t, column: c, ref: tableName(ref), onDelete: ant.OnDelete})
			b.logger.Debug("sql foreign key", "table", t.Name, "column", name, "references", tableName(ref))
		case t == nil:
		case v.IsArray():
			b.column(t, col, v, ant, b.jsonType())
		default:
			b.column(t, col, v, ant, b.scalarType(v.Type.Kind(), v.Max))
		}
	}
}

// column adds a scalar column for v.
func (b *tableBuilder) column(t *atlas.Table, name string, v schema.Descriptor, ant sqlschema.Annotation, typ atlas.Type) {
	if ant.Size > 0 {
		if st, ok := typ.(*atlas.StringType); ok {
			st.Size = int(ant.Size)
		}
	}
	if ant.ColumnType != "" {
		parsed, err := b.parseType(ant.ColumnType)
		if err != nil {
			b.errs = append(b.errs, fmt.Errorf("dialect/sql: column %s.%s: %w", t.Name, name, err))
			return
		}
		typ = parsed
	}
	c := atlas.NewColumn(name).SetType(typ).SetNull(v.Optional)
	switch {
	case ant.DefaultExpr != "":
		c.SetDefault(&atlas.RawExpr{X: ant.DefaultExpr})
	case ant.Default != "":
		c.SetDefault(&atlas.Literal{V: ant.Default})
	case v.Default != nil:
		c.SetDefault(&atlas.Literal{V: literal(v.Default)})
	}
	if ant.Collation != "" {
		c.AddAttrs(&atlas.Collation{V: ant.Collation})
	}
	t.AddColumns(c)
	if v.Unique {
		t.AddIndexes(atlas.NewUniqueIndex(t.Name + "_" + name + "_key").AddColumns(c))
	}
	b.logger.Debug("sql column", "table", t.Name, "column", name)
}

// resolve attaches the foreign keys and returns the tables in visit order.
func (b *tableBuilder) resolve() []*atlas.Table {
	byTable := make(map[string]*atlas.Table, len(b.order))
	for _, t := range b.order {
		byTable[t.Name] = t
	}
	for _, fk := range b.fks {
		ref, ok := byTable[fk.ref]
		if !ok {
			continue
		}
		id, _ := ref.Column("id")
		action := atlas.Cascade
		if fk.onDelete != "" {
			action = atlas.ReferenceOption(fk.onDelete)
		}
		fk.table.AddForeignKeys(atlas.NewForeignKey(fk.table.Name + "_" + fk.column.Name + "_fkey").
			AddColumns(fk.column).
			SetRefTable(ref).
			AddRefColumns(id).
			SetOnDelete(action))
	}
	return b.order
}

// sortTables orders tables so that a table comes after the tables it
// references. Cycles keep their visit order.
func sortTables(tables []*atlas.Table) []*atlas.Table {
	sorted := make([]*atlas.Table, 0, len(tables))
	done := make(map[*atlas.Table]bool, len(tables))
	ready := func(t *atlas.Table) bool {
		for _, fk := range t.ForeignKeys {
			if fk.RefTable != t && !done[fk.RefTable] {
				return false
			}
		}
		return true
	}
	for len(sorted) < len(tables) {
		next := -1
		for i, t := range tables {
			if !done[t] && ready(t) {
				next = i
				break
			}
		}
		if next == -1 {
			for i, t := range tables {
				if !done[t] {
					next = i
					break
				}
			}
		}
		done[tables[next]] = true
		sorted = append(sorted, tables[next])
	}
	return sorted
}

// literal formats a default value as a SQL literal.
func literal(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05") + "'"
	default:
		return fmt.Sprint(v)
	}
}

// parseType parses a column type written in the planner dialect.
func (b *tableBuilder) parseType(raw string) (atlas.Type, error) {
	switch b.dialect {
	case dialect.SQLite:
		return sqlite.ParseType(raw)
	case dialect.MySQL:
		return mysql.ParseType(raw)
	default:
		return postgres.ParseType(raw)
	}
}

func (b *tableBuilder) pkType() atlas.Type {
	if b.dialect == dialect.Postgres {
		return &postgres.SerialType{T: "bigserial"}
	}
	return b.intType()
}

func (b *tableBuilder) intType() atlas.Type {
	if b.dialect == dialect.SQLite {
		return &atlas.IntegerType{T: "integer"}
	}
	return &atlas.IntegerType{T: "bigint"}
}

func (b *tableBuilder) jsonType() atlas.Type {
	if b.dialect == dialect.Postgres {
		return &atlas.JSONType{T: "jsonb"}
	}
	return &atlas.JSONType{T: "json"}
}

func (b *tableBuilder) timeType(k schema.Kind) atlas.Type {
	switch {
	case k == schema.KindDate:
		return &atlas.TimeType{T: "date"}
	case k == schema.KindTime:
		return &atlas.TimeType{T: "time"}
	case b.dialect == dialect.SQLite:
		return &atlas.TimeType{T: "datetime"}
	case b.dialect == dialect.MySQL:
		return &atlas.TimeType{T: "timestamp"}
	default:
		return &atlas.TimeType{T: "timestamp with time zone"}
	}
}

// scalarType maps a primitive kind to a column type. limit sizes strings.
func (b *tableBuilder) scalarType(k schema.Kind, limit int) atlas.Type {
	switch k {
	case schema.KindBoolean:
		if b.dialect == dialect.Postgres {
			return &atlas.BoolType{T: "boolean"}
		}
		return &atlas.BoolType{T: "bool"}
	case schema.KindInteger:
		return b.intType()
	case schema.KindFloat:
		switch b.dialect {
		case dialect.SQLite:
			return &atlas.FloatType{T: "real"}
		case dialect.MySQL:
			return &atlas.FloatType{T: "double"}
		default:
			return &atlas.FloatType{T: "double precision"}
		}
	case schema.KindDate, schema.KindTime, schema.KindDateTime:
		return b.timeType(k)
	default:
		size := DefaultStringSize
		if limit > 0 {
			size = limit
		}
		if b.dialect == dialect.Postgres {
			return &atlas.StringType{T: "character varying", Size: size}
		}
		return &atlas.StringType{T: "varchar", Size: size}
	}
}
