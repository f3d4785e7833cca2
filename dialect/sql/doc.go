// Package sql maps normalized schemas to SQL tables and applies them to a
// database.
//
// # Tables
//
// A Planner builds atlas tables for a schema and every schema reachable from
// it. Each table gets an auto-increment id primary key and created_at and
// updated_at timestamps:
//
//	p, err := sql.NewPlanner(dialect.Postgres)
//	if err != nil {
//	    return err
//	}
//	plan, err := p.PlanCreate(ctx, Category{})
//	for _, c := range plan.Changes {
//	    fmt.Println(c.Cmd)
//	}
//
// The elements of an array of schemas are stored in a child table holding a
// <parent>_id foreign key with ON DELETE CASCADE. A reference to a single
// schema adds a <field>_id foreign key. Transient schemas have no table; their
// children are hosted by the nearest table above them. Arrays of scalars and
// blackbox fields are JSON columns.
//
// # Queries
//
// Select builds a query over a schema and the tables of nested selections:
//
//	s, err := p.Select(Category{}, sql.Nested("products", sql.Columns("name", "price")...))
//	rows, err := db.QueryContext(ctx, s.String())
//
// # Migrations
//
// A Migrator applies plans in a transaction, logging each statement:
//
//	m, err := sql.NewMigrator(db, dialect.SQLite, sql.WithLogger(logger))
//	if err := m.Create(ctx, Category{}); err != nil {
//	    return err
//	}
//	fmt.Println(m.Stats())
package sql
