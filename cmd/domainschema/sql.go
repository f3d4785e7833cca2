package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"github.com/spf13/cobra"

	"github.com/syssam/domainschema/dialect"
	dsql "github.com/syssam/domainschema/dialect/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func newSQLCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Plan and apply the tables of schema documents",
	}
	cmd.PersistentFlags().StringP("dialect", "d", dialect.SQLite, "SQL dialect: sqlite, mysql or postgres")
	cmd.PersistentFlags().String("dsn", "", "data source name of the database")

	plan := &cobra.Command{
		Use:   "plan FILES...",
		Short: "Print the statements creating (or dropping) the tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			drop, _ := cmd.Flags().GetBool("drop")
			return a.sqlPlan(cmd.Context(), cmd.OutOrStdout(), files, drop)
		},
	}
	plan.Flags().StringP("out", "o", "", "output file (default stdout)")
	plan.Flags().Bool("drop", false, "plan dropping the tables instead")

	apply := &cobra.Command{
		Use:   "apply FILES...",
		Short: "Create the tables on the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.sqlMigrate(cmd.Context(), cmd.OutOrStdout(), files, false)
		},
	}
	drop := &cobra.Command{
		Use:   "drop FILES...",
		Short: "Drop the tables from the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			return a.sqlMigrate(cmd.Context(), cmd.OutOrStdout(), files, true)
		},
	}
	cmd.AddCommand(plan, apply, drop)
	return cmd
}

func (a *app) sqlPlan(ctx context.Context, stdout io.Writer, files []string, drop bool) error {
	_, roots, err := a.load(ctx, files)
	if err != nil {
		return err
	}
	p, err := dsql.NewPlanner(a.cfg.Dialect, dsql.WithLogger(a.logger))
	if err != nil {
		return err
	}
	var plan *migrate.Plan
	if drop {
		plan, err = p.PlanDrop(ctx, roots...)
	} else {
		plan, err = p.PlanCreate(ctx, roots...)
	}
	if err != nil {
		return err
	}
	return a.write(stdout, []byte(formatPlan(plan)))
}

func (a *app) sqlMigrate(ctx context.Context, stdout io.Writer, files []string, drop bool) error {
	if a.cfg.DSN == "" {
		return errors.New("sql: --dsn is required")
	}
	_, roots, err := a.load(ctx, files)
	if err != nil {
		return err
	}
	drv, err := dsql.Open(a.cfg.Dialect, a.cfg.DSN)
	if err != nil {
		return err
	}
	defer drv.Close()
	m, err := dsql.NewMigrator(drv.DB(), a.cfg.Dialect, dsql.WithLogger(a.logger))
	if err != nil {
		return err
	}
	action := "created"
	if drop {
		action = "dropped"
		err = m.Drop(ctx, roots...)
	} else {
		err = m.Create(ctx, roots...)
	}
	if err != nil {
		return err
	}
	tables, err := m.TableNames(roots...)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s (%s)\n", action, strings.Join(tables, ", "), m.Stats())
	return nil
}

// formatPlan renders the statements of plan as a SQL script.
func formatPlan(plan *migrate.Plan) string {
	var b strings.Builder
	for _, c := range plan.Changes {
		if c.Comment != "" {
			fmt.Fprintf(&b, "-- %s\n", c.Comment)
		}
		b.WriteString(c.Cmd)
		b.WriteString(";\n")
	}
	return b.String()
}
