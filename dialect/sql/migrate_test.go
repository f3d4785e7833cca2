package sql_test

import (
	"bytes"
	"context"
	stdsql "database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/domainschema/dialect"
	"github.com/syssam/domainschema/dialect/sql"
)

func TestMigrator_Apply(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	m, err := sql.NewMigrator(db, dialect.MySQL, sql.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)
	plan, err := m.PlanCreate(ctx, Category{})
	require.NoError(t, err)
	require.NotEmpty(t, plan.Changes)

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		for _, c := range plan.Changes {
			mock.ExpectExec(c.Cmd).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()
		require.NoError(t, m.Apply(ctx, plan))
		require.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), "plan applied")
		assert.Equal(t, int64(len(plan.Changes)), m.Stats().TotalExecs)
	})

	t.Run("Rollback", func(t *testing.T) {
		cause := errors.New("table exists")
		mock.ExpectBegin()
		mock.ExpectExec(plan.Changes[0].Cmd).WillReturnError(cause)
		mock.ExpectRollback()
		err := m.Apply(ctx, plan)
		var merr *sql.MigrateError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, plan.Changes[0].Cmd, merr.Stmt)
		assert.ErrorIs(t, err, cause)
		require.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, int64(1), m.Stats().Errors)
	})

	t.Run("Begin", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))
		require.Error(t, m.Apply(ctx, plan))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMigrator_Errors(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = sql.NewMigrator(db, "oracle")
	require.Error(t, err)
	m, err := sql.NewMigrator(db, dialect.SQLite)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Create(context.Background(), Details{}), sql.ErrTransient)
	assert.ErrorIs(t, m.Drop(context.Background(), Details{}), sql.ErrTransient)
}

func TestMigrator_SQLite(t *testing.T) {
	ctx := context.Background()
	drv, err := sql.Open(dialect.SQLite, "file:migrate?mode=memory&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer drv.Close()
	db := drv.DB()
	db.SetMaxOpenConns(1)

	m, err := sql.NewMigrator(db, dialect.SQLite)
	require.NoError(t, err)
	require.NoError(t, m.Create(ctx, Category{}))
	assert.Equal(t, []string{"category", "note", "product"}, tableNames(t, db))

	_, err = db.ExecContext(ctx, "INSERT INTO `category` (`name`) VALUES (?)", "books")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		"INSERT INTO `product` (`name`, `tags`, `owner_id`, `payload`, `category_id`) VALUES (?, ?, ?, ?, ?)",
		"gopl", `["go"]`, 1, `{}`, 1)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO `category` (`name`) VALUES (?)", "books")
	require.Error(t, err)
	assert.True(t, sql.IsUniqueConstraintError(err))
	_, err = db.ExecContext(ctx,
		"INSERT INTO `product` (`name`, `tags`, `owner_id`, `payload`, `category_id`) VALUES (?, ?, ?, ?, ?)",
		"orphan", `[]`, 1, `{}`, 42)
	require.Error(t, err)
	assert.True(t, sql.IsForeignKeyConstraintError(err))

	p, err := sql.NewPlanner(dialect.SQLite)
	require.NoError(t, err)
	s, err := p.Select(Category{}, sql.Selection{Field: "name"}, sql.Nested("products", sql.Columns("name", "price")...))
	require.NoError(t, err)
	var (
		category, product string
		price             float64
	)
	require.NoError(t, db.QueryRowContext(ctx, s.String()).Scan(&category, &product, &price))
	assert.Equal(t, "books", category)
	assert.Equal(t, "gopl", product)
	assert.Equal(t, 9.5, price)

	require.NoError(t, m.Drop(ctx, Category{}))
	assert.Empty(t, tableNames(t, db))
}

func tableNames(t *testing.T, db *stdsql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}
