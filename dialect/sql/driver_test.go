package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/domainschema/dialect"
)

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		want    string
	}{
		{"Postgres", dialect.Postgres, dialect.Postgres},
		{"MySQL", dialect.MySQL, dialect.MySQL},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		{"Suffixed", "sqlite3", dialect.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.Equal(t, tt.want, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

func TestDriver_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.Postgres, db)
	ctx := context.Background()

	t.Run("Rows", func(t *testing.T) {
		mock.ExpectQuery(`SELECT name FROM category WHERE id = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("books"))
		rows := &Rows{}
		require.NoError(t, drv.Query(ctx, "SELECT name FROM category WHERE id = $1", []any{1}, rows))
		require.True(t, rows.Next())
		var name string
		require.NoError(t, rows.Scan(&name))
		assert.Equal(t, "books", name)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))
		err := drv.Query(ctx, "SELECT 1", []any{}, &Rows{})
		assert.ErrorContains(t, err, "dialect/sql: query: boom")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InvalidTypes", func(t *testing.T) {
		var rows sql.Rows
		assert.Error(t, drv.Query(ctx, "SELECT 1", []any{}, &rows))
		assert.Error(t, drv.Query(ctx, "SELECT 1", "args", &Rows{}))
	})
}

func TestDriver_Exec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.SQLite, db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO category").WithArgs("books").WillReturnResult(sqlmock.NewResult(7, 1))
	var res sql.Result
	require.NoError(t, drv.Exec(ctx, "INSERT INTO category (name) VALUES (?)", []any{"books"}, &res))
	id, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	mock.ExpectExec("DELETE FROM category").WillReturnResult(sqlmock.NewResult(0, 3))
	require.NoError(t, drv.Exec(ctx, "DELETE FROM category", []any{}, nil))

	mock.ExpectExec("DELETE FROM category").WillReturnError(errors.New("locked"))
	assert.ErrorContains(t, drv.Exec(ctx, "DELETE FROM category", []any{}, nil), "locked")

	assert.Error(t, drv.Exec(ctx, "DELETE FROM category", nil, nil))
	assert.Error(t, drv.Exec(ctx, "DELETE FROM category", []any{}, new(int)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDriver_Tx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(dialect.MySQL, db)
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
		mock.ExpectCommit()

		tx, err := drv.Tx(ctx)
		require.NoError(t, err)
		require.IsType(t, &Tx{}, tx)
		require.NoError(t, tx.Exec(ctx, "CREATE TABLE `note` (`id` bigint)", []any{}, nil))
		rows := &Rows{}
		require.NoError(t, tx.Query(ctx, "SELECT COUNT(*) FROM `note`", []any{}, rows))
		require.NoError(t, rows.Close())
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("exists"))
		mock.ExpectRollback()

		tx, err := drv.BeginTx(ctx, &TxOptions{})
		require.NoError(t, err)
		require.Error(t, tx.Exec(ctx, "CREATE TABLE `note` (`id` bigint)", []any{}, nil))
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginError", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))
		_, err := drv.Tx(ctx)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOpen(t *testing.T) {
	drv, err := Open(dialect.SQLite, "file:open?mode=memory")
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, drv.Dialect())
	require.NoError(t, drv.Close())

	_, err = Open("oracle", "")
	assert.Error(t, err)
}
