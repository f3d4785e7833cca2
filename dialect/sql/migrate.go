package sql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"ariga.io/atlas/sql/migrate"

	"github.com/syssam/domainschema/schema"
)

// Migrator creates and drops the tables of schemas on a database.
type Migrator struct {
	*Planner
	drv    *StatsDriver
	logger *slog.Logger
}

// NewMigrator returns a migrator executing statements on db in the given
// dialect.
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db?_pragma=foreign_keys(1)")
//	m, err := sql.NewMigrator(drv.DB(), dialect.SQLite)
//	err = m.Create(ctx, Category{})
func NewMigrator(db *sql.DB, name string, opts ...Option) (*Migrator, error) {
	p, err := NewPlanner(name, opts...)
	if err != nil {
		return nil, err
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Migrator{
		Planner: p,
		drv: NewStatsDriver(OpenDB(p.Dialect(), db),
			WithSlowThreshold(cfg.slowThreshold),
			WithSlowQueryLog(cfg.logger),
		),
		logger: cfg.logger,
	}, nil
}

// Create creates the tables of defs.
func (m *Migrator) Create(ctx context.Context, defs ...schema.Definition) error {
	plan, err := m.PlanCreate(ctx, defs...)
	if err != nil {
		return err
	}
	return m.Apply(ctx, plan)
}

// Drop drops the tables of defs.
func (m *Migrator) Drop(ctx context.Context, defs ...schema.Definition) error {
	plan, err := m.PlanDrop(ctx, defs...)
	if err != nil {
		return err
	}
	return m.Apply(ctx, plan)
}

// Apply executes the statements of plan in one transaction. The first
// failing statement rolls the transaction back and is returned as a
// *MigrateError.
func (m *Migrator) Apply(ctx context.Context, plan *migrate.Plan) error {
	tx, err := m.drv.Tx(ctx)
	if err != nil {
		return err
	}
	for _, c := range plan.Changes {
		m.logger.InfoContext(ctx, "apply statement", "plan", plan.Name, "comment", c.Comment, "stmt", c.Cmd)
		if err := tx.Exec(ctx, c.Cmd, c.Args, nil); err != nil {
			if IsConstraintError(err) {
				m.logger.WarnContext(ctx, "constraint violation", "stmt", c.Cmd, "error", err)
			}
			return errors.Join(&MigrateError{Stmt: c.Cmd, Err: err}, tx.Rollback())
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "plan applied", "plan", plan.Name, "statements", len(plan.Changes))
	return nil
}

// Stats returns the statistics of the statements executed so far.
func (m *Migrator) Stats() StatsSnapshot {
	return m.drv.QueryStats().Stats()
}
